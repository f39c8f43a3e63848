package flupdo

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/biyonik/go-flupdo/dialect"
	"github.com/biyonik/go-flupdo/internal/clause"
)

// -----------------------------------------------------------------------------
//  Bu dosya; clause buffer'larını SQL metnine çeviren derleyici
//  primitiflerini içerir. Her statement türü kendi sabit sırasını bu
//  primitiflerle kurar: bayrak satırı, liste, koşullar, join'ler, VALUES
//  satırları ve yorumlar. İç içe statement'lar bir seviye daha girintili
//  derlenir ve parametreleri bulundukları konuma eklenir.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// decoration, liste ve bayrak buffer'larının nasıl yerleştirileceğini belirler.
type decoration uint8

const (
	decIndent      decoration = 0x01 // indent the first line
	decLabel       decoration = 0x02 // emit the buffer id as keyword
	decBrackets    decoration = 0x04 // wrap items in parentheses, comma separated
	decNoSeparator decoration = 0x08 // items on separate lines, no commas
	decSubIndent   decoration = 0x20 // indent the first line with the sub-indent
	decComma       decoration = 0x40 // trailing comma
	decEOL         decoration = 0x80 // trailing newline
)

// Buffer id'leri. SQL anahtar kelimesi olan id'ler olduğu gibi yazılır.
const (
	bufHeader        = "-- HEADER"
	bufFooter        = "-- FOOTER"
	bufSelect        = "SELECT"
	bufSelectFirst   = "SELECT_FIRST"
	bufInsert        = "INSERT"
	bufReplace       = "REPLACE"
	bufUpdate        = "UPDATE"
	bufDelete        = "DELETE"
	bufInto          = "INTO"
	bufFrom          = "FROM"
	bufJoin          = "JOIN"
	bufWhere         = "WHERE"
	bufGroupBy       = "GROUP BY"
	bufHaving        = "HAVING"
	bufOrderBy       = "ORDER BY"
	bufLimit         = "LIMIT"
	bufOffset        = "OFFSET"
	bufSet           = "SET"
	bufValues        = "VALUES"
	bufOnDuplicate   = "ON DUPLICATE KEY UPDATE"
	bufRawQuery      = "RAW_QUERY"
	bufPriority      = "PRIORITY"
	bufIgnore        = "IGNORE"
	bufQuick         = "QUICK"
	bufDistinct      = "DISTINCT"
	bufHighPriority  = "HIGH_PRIORITY"
	bufStraightJoin  = "STRAIGHT_JOIN"
	bufResultSize    = "SQL_RESULT_SIZE"
	bufBufferResult  = "SQL_BUFFER_RESULT"
	bufCache         = "SQL_CACHE"
	bufCalcFoundRows = "SQL_CALC_FOUND_ROWS"
	bufRollup        = "WITH_ROLLUP"
	bufLock          = "LOCK"
)

// renderer, tek bir statement yazar. Hatalar kalıcıdır: ilk hatadan sonra
// her primitif etkisizdir ve finish yarım kalan çıktıyı atar.
type renderer struct {
	kind      Kind
	store     *clause.Store
	quoter    dialect.Quoter
	noParens  bool
	indent    string
	subIndent string

	sb     strings.Builder
	params []any
	err    error
}

func (r *renderer) finish() (string, []any, error) {
	if r.err != nil {
		return "", nil, r.err
	}
	return r.sb.String(), r.params, nil
}

func (r *renderer) fail(buffer string, format string, args ...any) {
	if r.err != nil {
		return
	}
	r.err = &ClauseError{
		Kind:   r.kind,
		Buffer: buffer,
		Err:    fmt.Errorf("%w: "+format, append([]any{ErrUnsupportedFragment}, args...)...),
	}
}

func (r *renderer) has(id string) bool {
	return r.store.Has(id)
}

// group, g'nin parçalarını boşlukla ayırarak yazar ve parametrelerini
// toplar. İç içe statement'lar bir seviye derin derlenir ve parametreleri
// bulundukları konuma eklenir: grup parametreleri önce iç içe statement'tan
// önceki literal parçaların placeholder'larınca tüketilir, kalanlar sonra
// gelir. Tırnak içindeki placeholder'lar sayılmaz.
func (r *renderer) group(id string, g clause.Group) {
	used := 0
	for i, f := range g.Fragments {
		if r.err != nil {
			return
		}
		if i > 0 {
			r.sb.WriteByte(' ')
		}
		switch f.Kind {
		case clause.Literal:
			r.sb.WriteString(f.Text)
			if n := min(len(placeholders(f.Text)), len(g.Params)-used); n > 0 && hasSub(g.Fragments[i+1:]) {
				r.params = append(r.params, g.Params[used:used+n]...)
				used += n
			}
		case clause.Value:
			r.sb.WriteString(quoteValue(r.quoter, f.Value))
		case clause.Sub:
			if isNilSub(f.Sub) {
				r.fail(id, "nil sub-statement")
				return
			}
			childIndent := r.subIndent + "\t"
			query, params, err := f.Sub.CompileNested(childIndent, childIndent+"\t")
			if err != nil {
				r.err = err
				return
			}
			r.sb.WriteString("(\n")
			r.sb.WriteString(query)
			r.sb.WriteString(r.subIndent)
			r.sb.WriteString(")")
			r.params = append(r.params, params...)
		}
	}
	r.params = append(r.params, g.Params[used:]...)
}

// isNilSub, sub'ın nil ya da tipli nil pointer olup olmadığını bildirir.
func isNilSub(sub clause.Subquery) bool {
	if sub == nil {
		return true
	}
	rv := reflect.ValueOf(sub)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func hasSub(fragments []clause.Fragment) bool {
	for _, f := range fragments {
		if f.Kind == clause.Sub {
			return true
		}
	}
	return false
}

// comment, id buffer'ının her grubunu SQL satır yorumu olarak yazar.
func (r *renderer) comment(id string) {
	if r.err != nil {
		return
	}
	for _, g := range r.store.Groups(id) {
		text := commentText(g.Args)
		text = strings.ReplaceAll(text, "\r", "")
		text = strings.ReplaceAll(text, "\n", "\n"+r.indent+"-- ")
		r.sb.WriteString(r.indent)
		r.sb.WriteString("-- ")
		r.sb.WriteString(text)
		r.sb.WriteByte('\n')
	}
}

func commentText(args []any) string {
	if len(args) == 0 {
		return ""
	}
	switch x := args[0].(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, "\n")
	case Raw:
		return x.SQL
	default:
		return fmt.Sprint(x)
	}
}

// flags, statement anahtar kelimesini ve ayarlı bayrak buffer'larını yazar.
func (r *renderer) flags(label string, ids []string, d decoration) {
	if r.err != nil {
		return
	}
	first := false
	if d&decIndent != 0 {
		r.sb.WriteString(r.indent)
		first = true
	}
	if d&decLabel != 0 {
		if !first {
			r.sb.WriteByte(' ')
		}
		r.sb.WriteString(label)
		first = false
	}
	for _, id := range ids {
		flag, ok := r.store.Flag(id)
		if !ok {
			continue
		}
		if first {
			first = false
		} else {
			r.sb.WriteByte(' ')
		}
		r.sb.WriteString(flag)
	}
	if d&decComma != 0 {
		r.sb.WriteByte(',')
	}
	if d&decEOL != 0 {
		r.sb.WriteByte('\n')
	}
}

// list, id buffer'ını grup listesi olarak yazar.
func (r *renderer) list(id string, d decoration) {
	if r.err != nil || !r.has(id) {
		return
	}

	switch {
	case d&(decIndent|decSubIndent) != 0:
		if d&(decBrackets|decSubIndent) != 0 {
			r.sb.WriteString(r.subIndent)
		} else {
			r.sb.WriteString(r.indent)
		}
	case d&(decLabel|decBrackets) != 0:
		r.sb.WriteByte(' ')
	}
	if d&decLabel != 0 {
		r.sb.WriteString(id)
	}
	if d&decBrackets != 0 {
		r.sb.WriteByte('(')
	}

	for i, g := range r.store.Groups(id) {
		switch {
		case d&decNoSeparator != 0:
			if i > 0 {
				r.sb.WriteString("\n")
				r.sb.WriteString(r.subIndent)
			}
		case d&decBrackets != 0:
			if i > 0 {
				r.sb.WriteString(", ")
			}
		default:
			if i == 0 {
				r.sb.WriteByte(' ')
			} else {
				r.sb.WriteString(",\n")
				r.sb.WriteString(r.subIndent)
			}
		}
		r.group(id, g)
	}

	if d&decBrackets != 0 {
		r.sb.WriteByte(')')
	}
	if d&decComma != 0 {
		r.sb.WriteByte(',')
	}
	if d&decEOL != 0 {
		r.sb.WriteByte('\n')
	}
}

// conditions, id buffer'ını her satırda bir terim olacak şekilde AND ile yazar.
func (r *renderer) conditions(id string) {
	if r.err != nil || !r.has(id) {
		return
	}
	r.sb.WriteString(r.indent)
	r.sb.WriteString(id)
	for i, g := range r.store.Groups(id) {
		if r.noParens {
			if i == 0 {
				r.sb.WriteByte(' ')
			} else {
				r.sb.WriteString(r.subIndent)
				r.sb.WriteString("AND ")
			}
			r.group(id, g)
			r.sb.WriteByte('\n')
			continue
		}
		if i == 0 {
			r.sb.WriteString(" (")
		} else {
			r.sb.WriteString(r.subIndent)
			r.sb.WriteString("AND (")
		}
		r.group(id, g)
		r.sb.WriteString(")\n")
	}
}

// joins, her join için anahtar kelimeyle başlayan bir satır yazar.
func (r *renderer) joins(id string) {
	if r.err != nil {
		return
	}
	for _, g := range r.store.Groups(id) {
		r.sb.WriteString(r.indent)
		r.sb.WriteString(g.Label)
		r.sb.WriteByte(' ')
		r.group(id, g)
		r.sb.WriteByte('\n')
	}
}

// values, id buffer'ını VALUES listesi olarak yazar. Her grup tam olarak bir
// argüman taşır: her biri değer listesi olan satırlar. Değerler bind
// edilmez, quote edilerek yazılır.
func (r *renderer) values(id string) {
	if r.err != nil || !r.has(id) {
		return
	}
	r.sb.WriteString(r.indent)
	r.sb.WriteString(id)
	r.sb.WriteByte('\n')

	first := true
	for _, g := range r.store.Groups(id) {
		if len(g.Args) != 1 {
			r.fail(id, "VALUES takes exactly one argument, got %d", len(g.Args))
			return
		}
		rows, ok := valueRows(g.Args[0])
		if !ok {
			r.fail(id, "VALUES rows must be a list of lists, got %T", g.Args[0])
			return
		}
		for _, row := range rows {
			if first {
				first = false
				r.sb.WriteString(r.subIndent)
				r.sb.WriteByte('(')
			} else {
				r.sb.WriteString("),\n")
				r.sb.WriteString(r.subIndent)
				r.sb.WriteByte('(')
			}
			for i, v := range row {
				if i > 0 {
					r.sb.WriteString(", ")
				}
				r.sb.WriteString(quoteValue(r.quoter, v))
			}
		}
	}
	if first {
		r.fail(id, "VALUES has no rows")
		return
	}
	r.sb.WriteString(")\n")
}

// valueRows, slice'lardan oluşan v'yi değer satırlarına çevirir.
func valueRows(v any) ([][]any, bool) {
	if rows, ok := v.([][]any); ok {
		return rows, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	rows := make([][]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i)
		for item.Kind() == reflect.Interface && !item.IsNil() {
			item = item.Elem()
		}
		if item.Kind() != reflect.Slice && item.Kind() != reflect.Array {
			return nil, false
		}
		row := make([]any, item.Len())
		for j := range row {
			row[j] = item.Index(j).Interface()
		}
		rows = append(rows, row)
	}
	return rows, true
}
