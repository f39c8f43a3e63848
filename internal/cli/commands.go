package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	flupdo "github.com/biyonik/go-flupdo"
	"github.com/biyonik/go-flupdo/internal/validation"
)

func newQuoteIdentCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "quote-ident NAME...",
		Short: "Quote identifiers for the configured dialect",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := getConfig(cmd.Context()).Dialect()
			if err != nil {
				return err
			}
			for _, name := range args {
				if strict {
					if err := validation.ValidateIdentifier(name); err != nil {
						return fmt.Errorf("%w: %w", flupdo.ErrInvalidIdentifier, err)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), d.QuoteIdent(name))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject names that are not plain [db.]table[.column] identifiers")
	return cmd
}

func newQuoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quote VALUE...",
		Short: "Quote string literals for the configured dialect",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := getConfig(cmd.Context()).Dialect()
			if err != nil {
				return err
			}
			for _, v := range args {
				fmt.Fprintln(cmd.OutOrStdout(), d.QuoteString(v))
			}
			return nil
		},
	}
}

func newSelectCommand() *cobra.Command {
	var (
		columns []string
		from    string
		where   []string
		filters []string
		params  []string
		orderBy string
		limit   int
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Build a SELECT statement and print or run it",
		Example: `  flupdo select --from users --columns id,name --where "id > ?" --param 10 --limit 5
  flupdo select --from users --filter "name LIKE a%" --filter "deleted_at IS NULL"
  flupdo select --from users --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())
			d, err := cfg.Dialect()
			if err != nil {
				return err
			}

			var f *flupdo.Flupdo
			if dryRun {
				f = flupdo.New(nil, flupdo.WithDialect(d))
			} else {
				if f, err = openDB(cmd); err != nil {
					return err
				}
				defer f.Close()
			}

			sel := f.Select()
			if len(columns) == 0 {
				sel.Select("*")
			}
			for _, col := range columns {
				sel.Select(f.QuoteIdent(col))
			}
			if from != "" {
				sel.From(f.QuoteIdent(from))
			}

			rest := toAny(params)
			for _, cond := range where {
				n := min(strings.Count(cond, "?"), len(rest))
				sel.Where(cond, rest[:n]...)
				rest = rest[n:]
			}
			if len(rest) > 0 {
				return fmt.Errorf("%d unused --param values", len(rest))
			}
			for _, expr := range filters {
				cond, args, err := filterCondition(f, expr)
				if err != nil {
					return err
				}
				sel.Where(cond, args...)
			}
			if orderBy != "" {
				sel.OrderBy(orderBy)
			}
			if limit > 0 {
				sel.Limit("?", limit)
			}

			if dryRun {
				query, args, err := sel.Compile()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), query)
				if len(args) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "-- params: %v\n", args)
				}
				return nil
			}

			return printRows(cmd, sel.Statement)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&columns, "columns", nil, "Columns to select (default *)")
	flags.StringVar(&from, "from", "", "Table to select from")
	flags.StringArrayVar(&where, "where", nil, "WHERE condition, repeatable; placeholders take --param values in order")
	flags.StringArrayVar(&filters, "filter", nil, `Checked condition "COLUMN OP VALUE", repeatable`)
	flags.StringArrayVar(&params, "param", nil, "Placeholder value, repeatable")
	flags.StringVar(&orderBy, "order-by", "", "ORDER BY expression")
	flags.IntVar(&limit, "limit", 0, "Maximum number of rows")
	flags.BoolVar(&dryRun, "dry-run", false, "Print the SQL without connecting")
	return cmd
}

func newExecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exec SQL [PARAM...]",
		Short: "Execute a statement and print the affected row count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := f.RawQuery(rawArgs(args)...).Exec(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
			return nil
		},
	}
}

func newQueryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query SQL [PARAM...]",
		Short: "Run a query and print the result as a table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			return printRows(cmd, f.RawQuery(rawArgs(args)...).Statement)
		},
	}
}

func newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain SQL [PARAM...]",
		Short: "Print the query plan of a statement",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := f.RawQuery(rawArgs(args)...).Explain(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), res.String())
			return nil
		},
	}
}

// filterCondition turns "COLUMN OP VALUE" into a WHERE fragment. The column
// must be a plain identifier and the operator must be whitelisted; the value
// is always bound, except for IS [NOT] NULL.
func filterCondition(f *flupdo.Flupdo, expr string) (string, []any, error) {
	fields := strings.Fields(expr)
	if len(fields) < 3 {
		return "", nil, fmt.Errorf("filter %q: want COLUMN OP VALUE", expr)
	}

	column := fields[0]
	if err := validation.ValidateIdentifier(column); err != nil {
		return "", nil, fmt.Errorf("%w: %w", flupdo.ErrInvalidIdentifier, err)
	}

	op, err := validation.NormalizeOperator(fields[1])
	value := fields[2:]
	if len(fields) > 3 {
		if two, err2 := validation.NormalizeOperator(fields[1] + " " + fields[2]); err2 == nil {
			op, err, value = two, nil, fields[3:]
		}
	}
	if err != nil {
		return "", nil, err
	}

	if validation.IsNullOperator(op) {
		if len(value) != 1 || !strings.EqualFold(value[0], "NULL") {
			return "", nil, fmt.Errorf("filter %q: %s only accepts NULL", expr, op)
		}
		return f.QuoteIdent(column) + " " + op + " NULL", nil, nil
	}
	return f.QuoteIdent(column) + " " + op + " ?", []any{strings.Join(value, " ")}, nil
}

// printRows runs stmt and writes its rows as a table.
func printRows(cmd *cobra.Command, stmt *flupdo.Statement) error {
	rows, err := stmt.Query(cmd.Context())
	if err != nil {
		return err
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return err
	}
	list, err := flupdo.ScanMaps(rows)
	if err != nil {
		return err
	}
	flupdo.WriteTable(cmd.OutOrStdout(), columns, list)
	return nil
}

// rawArgs turns "SQL PARAM..." into RawQuery arguments. The statement is
// wrapped in Raw so that it is never taken for a value.
func rawArgs(args []string) []any {
	return append([]any{flupdo.RawSQL(args[0])}, toAny(args[1:])...)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
