package flupdo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ExplainResult, bir EXPLAIN statement'ının çıktısını tutar.
type ExplainResult struct {
	Query   string
	Columns []string
	Rows    []map[string]any
}

// String, planı tablo olarak yazar.
func (e *ExplainResult) String() string {
	var sb strings.Builder
	WriteTable(&sb, e.Columns, e.Rows)
	return sb.String()
}

// Explain, statement için parametreleri yerleştirilmiş bir EXPLAIN çalıştırır.
func (s *Statement) Explain(ctx context.Context) (*ExplainResult, error) {
	query, params, err := s.prepare()
	if err != nil {
		return nil, err
	}

	explainSQL := "EXPLAIN " + Interpolate(s.quoter, query, params)
	rows, err := s.exec.QueryContext(ctx, explainSQL)
	if err != nil {
		return nil, newQueryError("explain", explainSQL, nil, err)
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, newQueryError("explain", explainSQL, nil, err)
	}
	list, err := ScanMaps(rows)
	if err != nil {
		return nil, newQueryError("explain", explainSQL, nil, err)
	}
	return &ExplainResult{Query: explainSQL, Columns: columns, Rows: list}, nil
}

// explain, çalıştırılan bir SELECT'in planını loglar. Hatalar döndürülmez,
// yalnızca loglanır.
func (s *Statement) explain(ctx context.Context, query string, params []any) {
	res, err := s.Explain(ctx)
	if err != nil {
		s.logger.Warn("sql explain failed", slog.String("sql", query), slog.Any("error", err))
		return
	}
	s.logger.Debug("sql explain", slog.String("sql", res.Query), slog.String("plan", res.String()),
		slog.Int("params", len(params)))
}

// WriteTable, satırları verilen kolon sırasıyla w'ye metin tablo olarak yazar.
func WriteTable(w io.Writer, columns []string, rows []map[string]any) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range rows {
		row := make(table.Row, len(columns))
		for i, col := range columns {
			row[i] = formatCell(r[col])
		}
		t.AppendRow(row)
	}

	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
