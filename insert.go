package flupdo

import "github.com/biyonik/go-flupdo/internal/clause"

var insertRegistry = commentRegistry.Merge(selectFamilyRegistry, joinRegistry, filterRegistry, setRegistry, clause.Registry{
	"insert":               {Action: clause.Add, Buffer: bufInsert},
	"into":                 {Action: clause.Replace, Buffer: bufInto},
	"lowPriority":          {Action: clause.SetFlag, Buffer: bufPriority, Label: "LOW_PRIORITY"},
	"delayed":              {Action: clause.SetFlag, Buffer: bufPriority, Label: "DELAYED"},
	"highPriority":         {Action: clause.SetFlag, Buffer: bufPriority, Label: "HIGH_PRIORITY"},
	"ignore":               {Action: clause.SetFlag, Buffer: bufIgnore, Label: "IGNORE"},
	"values":               {Action: clause.Add, Buffer: bufValues},
	"onDuplicateKeyUpdate": {Action: clause.Add, Buffer: bufOnDuplicate},
})

// InsertBuilder, INSERT statement'ı oluşturur. Mevcut clause'lara göre üç
// biçimden biri seçilir; öncelik sırası INSERT ... SELECT, INSERT ... VALUES,
// INSERT ... SET şeklindedir.
type InsertBuilder struct {
	*Statement
	commentClauses[*InsertBuilder]
	selectClauses[*InsertBuilder]
	joinClauses[*InsertBuilder]
	filterClauses[*InsertBuilder]
	setClauses[*InsertBuilder]
}

func newInsertBuilder(s *Statement) *InsertBuilder {
	b := &InsertBuilder{Statement: s}
	c := chain[*InsertBuilder]{stmt: s, self: b}
	b.commentClauses = commentClauses[*InsertBuilder]{c}
	b.selectClauses = selectClauses[*InsertBuilder]{c}
	b.joinClauses = joinClauses[*InsertBuilder]{c}
	b.filterClauses = filterClauses[*InsertBuilder]{c}
	b.setClauses = setClauses[*InsertBuilder]{c}
	return b
}

// Insert, kolon listesine bir ifade ekler.
func (b *InsertBuilder) Insert(expr any, params ...any) *InsertBuilder {
	return b.setClauses.with("insert", expr, params)
}

// Columns, kolon adlarını quote ederek kolon listesine ekler.
func (b *InsertBuilder) Columns(names ...string) *InsertBuilder {
	for _, n := range names {
		b.apply("insert", b.QuoteIdent(n))
	}
	return b
}

// Into, hedef tabloyu belirler.
func (b *InsertBuilder) Into(expr any, params ...any) *InsertBuilder {
	return b.setClauses.with("into", expr, params)
}

// LowPriority, LOW_PRIORITY niteleyicisini ayarlar. DELAYED ve HIGH_PRIORITY
// ile aynı bayrağı paylaşır; son çağrı geçerlidir.
func (b *InsertBuilder) LowPriority() *InsertBuilder { return b.flag("lowPriority") }

// Delayed, DELAYED niteleyicisini ayarlar.
func (b *InsertBuilder) Delayed() *InsertBuilder { return b.flag("delayed") }

// HighPriority, HIGH_PRIORITY niteleyicisini ayarlar.
func (b *InsertBuilder) HighPriority() *InsertBuilder { return b.flag("highPriority") }

// Ignore, IGNORE niteleyicisini ayarlar.
func (b *InsertBuilder) Ignore() *InsertBuilder { return b.flag("ignore") }

// Values, VALUES listesine satır ekler. rows, her biri bir değer slice'ı olan
// satırların slice'ıdır; [][]any ve [][]string gibi tipli varyantlar kabul
// edilir. Değerler bind edilmez, quote edilerek SQL metnine yazılır.
func (b *InsertBuilder) Values(rows any) *InsertBuilder {
	b.apply("values", rows)
	return b
}

// ValuesRow, VALUES listesine tek bir satır ekler.
func (b *InsertBuilder) ValuesRow(values ...any) *InsertBuilder {
	return b.Values([][]any{values})
}

// OnDuplicateKeyUpdate, ON DUPLICATE KEY UPDATE listesine bir atama ekler.
func (b *InsertBuilder) OnDuplicateKeyUpdate(expr any, params ...any) *InsertBuilder {
	return b.setClauses.with("onDuplicateKeyUpdate", expr, params)
}

// Clone, builder'ın derlenmemiş bir kopyasını döndürür.
func (b *InsertBuilder) Clone() *InsertBuilder {
	return newInsertBuilder(b.Statement.clone())
}

func (b *InsertBuilder) flag(name string) *InsertBuilder {
	b.apply(name)
	return b
}

func (r *renderer) insertStatement() {
	r.comment(bufHeader)
	r.flags(bufInsert, []string{bufPriority, bufIgnore}, decIndent|decLabel)
	r.insertTarget(bufInsert)
	r.list(bufOnDuplicate, decIndent|decLabel|decEOL)
	r.comment(bufFooter)
}

// insertTarget, INTO'yu, columns buffer'ındaki kolon listesini ve satır
// kaynağını yazar. INSERT ve REPLACE ortak kullanır.
func (r *renderer) insertTarget(columns string) {
	r.list(bufInto, decLabel|decEOL)
	r.list(columns, decIndent|decBrackets|decEOL)

	switch {
	case r.has(bufSelect):
		r.selectBody()
	case r.has(bufValues):
		r.values(bufValues)
	default:
		r.list(bufSet, decIndent|decLabel|decEOL)
	}
}
