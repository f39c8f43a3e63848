package flupdo

import "github.com/biyonik/go-flupdo/internal/clause"

var selectRegistry = commentRegistry.Merge(selectFamilyRegistry, joinRegistry, filterRegistry, clause.Registry{
	"highPriority":    {Action: clause.SetFlag, Buffer: bufHighPriority, Label: "HIGH_PRIORITY"},
	"forUpdate":       {Action: clause.SetFlag, Buffer: bufLock, Label: "FOR UPDATE"},
	"lockInShareMode": {Action: clause.SetFlag, Buffer: bufLock, Label: "LOCK IN SHARE MODE"},
})

// SelectBuilder, SELECT statement'ı oluşturur.
//
//	q := db.Select("`id`, `name`").
//		From("`users`").
//		Where("`active` = ?", true).
//		OrderBy("`name`").
//		Limit(10)
type SelectBuilder struct {
	*Statement
	commentClauses[*SelectBuilder]
	selectClauses[*SelectBuilder]
	joinClauses[*SelectBuilder]
	filterClauses[*SelectBuilder]
}

func newSelectBuilder(s *Statement) *SelectBuilder {
	b := &SelectBuilder{Statement: s}
	c := chain[*SelectBuilder]{stmt: s, self: b}
	b.commentClauses = commentClauses[*SelectBuilder]{c}
	b.selectClauses = selectClauses[*SelectBuilder]{c}
	b.joinClauses = joinClauses[*SelectBuilder]{c}
	b.filterClauses = filterClauses[*SelectBuilder]{c}
	return b
}

// HighPriority, HIGH_PRIORITY niteleyicisini ayarlar.
func (b *SelectBuilder) HighPriority() *SelectBuilder { return b.call("highPriority") }

// ForUpdate, sorgunun sonuna FOR UPDATE ekler. LockInShareMode'un yerini alır.
func (b *SelectBuilder) ForUpdate() *SelectBuilder { return b.call("forUpdate") }

// LockInShareMode, sorgunun sonuna LOCK IN SHARE MODE ekler. ForUpdate'in yerini alır.
func (b *SelectBuilder) LockInShareMode() *SelectBuilder { return b.call("lockInShareMode") }

// Clone, builder'ın derlenmemiş bir kopyasını döndürür.
func (b *SelectBuilder) Clone() *SelectBuilder {
	return newSelectBuilder(b.Statement.clone())
}

func (b *SelectBuilder) call(name string) *SelectBuilder {
	b.apply(name)
	return b
}

func (r *renderer) selectStatement() {
	r.comment(bufHeader)
	r.selectBody()
	r.flagLine(bufLock)
	r.comment(bufFooter)
}

// selectBody, SELECT ... LIMIT kısmını yazar. INSERT ... SELECT ve
// REPLACE ... SELECT de kullanır.
func (r *renderer) selectBody() {
	r.flags(bufSelect, []string{
		bufDistinct,
		bufHighPriority,
		bufStraightJoin,
		bufResultSize,
		bufBufferResult,
		bufCache,
		bufCalcFoundRows,
	}, decIndent|decLabel)

	switch {
	case r.has(bufSelectFirst) && r.has(bufSelect):
		r.list(bufSelectFirst, decComma|decEOL)
		r.list(bufSelect, decSubIndent|decEOL)
	case r.has(bufSelectFirst):
		r.list(bufSelectFirst, decEOL)
	case r.has(bufSelect):
		r.list(bufSelect, decEOL)
	default:
		r.sb.WriteByte('\n')
	}

	r.list(bufFrom, decIndent|decLabel|decEOL)
	r.joins(bufJoin)
	r.conditions(bufWhere)
	r.list(bufGroupBy, decIndent|decLabel|decEOL)
	r.flagLine(bufRollup)
	r.conditions(bufHaving)
	r.list(bufOrderBy, decIndent|decLabel|decEOL)
	if r.has(bufLimit) {
		r.list(bufLimit, decIndent|decLabel|decEOL)
		r.list(bufOffset, decIndent|decLabel|decEOL)
	}
}

// flagLine, ayarlıysa id buffer'ının bayrağını kendi satırına yazar.
func (r *renderer) flagLine(id string) {
	if _, ok := r.store.Flag(id); ok {
		r.flags("", []string{id}, decIndent|decEOL)
	}
}
