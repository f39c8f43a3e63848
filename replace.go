package flupdo

import "github.com/biyonik/go-flupdo/internal/clause"

var replaceRegistry = commentRegistry.Merge(selectFamilyRegistry, joinRegistry, filterRegistry, setRegistry, clause.Registry{
	"replace":     {Action: clause.Add, Buffer: bufReplace},
	"into":        {Action: clause.Replace, Buffer: bufInto},
	"lowPriority": {Action: clause.SetFlag, Buffer: bufPriority, Label: "LOW_PRIORITY"},
	"delayed":     {Action: clause.SetFlag, Buffer: bufPriority, Label: "DELAYED"},
	"values":      {Action: clause.Add, Buffer: bufValues},
})

// ReplaceBuilder, REPLACE statement'ı oluşturur. InsertBuilder ile aynı satır
// kaynaklarını kabul eder.
type ReplaceBuilder struct {
	*Statement
	commentClauses[*ReplaceBuilder]
	selectClauses[*ReplaceBuilder]
	joinClauses[*ReplaceBuilder]
	filterClauses[*ReplaceBuilder]
	setClauses[*ReplaceBuilder]
}

func newReplaceBuilder(s *Statement) *ReplaceBuilder {
	b := &ReplaceBuilder{Statement: s}
	c := chain[*ReplaceBuilder]{stmt: s, self: b}
	b.commentClauses = commentClauses[*ReplaceBuilder]{c}
	b.selectClauses = selectClauses[*ReplaceBuilder]{c}
	b.joinClauses = joinClauses[*ReplaceBuilder]{c}
	b.filterClauses = filterClauses[*ReplaceBuilder]{c}
	b.setClauses = setClauses[*ReplaceBuilder]{c}
	return b
}

// Replace, kolon listesine bir ifade ekler.
func (b *ReplaceBuilder) Replace(expr any, params ...any) *ReplaceBuilder {
	return b.setClauses.with("replace", expr, params)
}

// Columns, kolon adlarını quote ederek kolon listesine ekler.
func (b *ReplaceBuilder) Columns(names ...string) *ReplaceBuilder {
	for _, n := range names {
		b.apply("replace", b.QuoteIdent(n))
	}
	return b
}

// Into, hedef tabloyu belirler.
func (b *ReplaceBuilder) Into(expr any, params ...any) *ReplaceBuilder {
	return b.setClauses.with("into", expr, params)
}

// LowPriority, LOW_PRIORITY niteleyicisini ayarlar. DELAYED ile aynı bayrağı paylaşır.
func (b *ReplaceBuilder) LowPriority() *ReplaceBuilder {
	b.apply("lowPriority")
	return b
}

// Delayed, DELAYED niteleyicisini ayarlar.
func (b *ReplaceBuilder) Delayed() *ReplaceBuilder {
	b.apply("delayed")
	return b
}

// Values, VALUES listesine satır ekler; bkz. InsertBuilder.Values.
func (b *ReplaceBuilder) Values(rows any) *ReplaceBuilder {
	b.apply("values", rows)
	return b
}

// ValuesRow, VALUES listesine tek bir satır ekler.
func (b *ReplaceBuilder) ValuesRow(values ...any) *ReplaceBuilder {
	return b.Values([][]any{values})
}

// Clone, builder'ın derlenmemiş bir kopyasını döndürür.
func (b *ReplaceBuilder) Clone() *ReplaceBuilder {
	return newReplaceBuilder(b.Statement.clone())
}

func (r *renderer) replaceStatement() {
	r.comment(bufHeader)
	r.flags(bufReplace, []string{bufPriority}, decIndent|decLabel)
	r.insertTarget(bufReplace)
	r.comment(bufFooter)
}
