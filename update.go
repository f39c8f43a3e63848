package flupdo

import "github.com/biyonik/go-flupdo/internal/clause"

var updateRegistry = commentRegistry.Merge(joinRegistry, filterRegistry, setRegistry, clause.Registry{
	"update":      {Action: clause.Add, Buffer: bufUpdate},
	"lowPriority": {Action: clause.SetFlag, Buffer: bufPriority, Label: "LOW_PRIORITY"},
	"ignore":      {Action: clause.SetFlag, Buffer: bufIgnore, Label: "IGNORE"},
})

// UpdateBuilder, UPDATE statement'ı oluşturur.
//
//	db.Update("`users`").
//		Set("`name` = ?", name).
//		Where("`id` = ?", id)
type UpdateBuilder struct {
	*Statement
	commentClauses[*UpdateBuilder]
	joinClauses[*UpdateBuilder]
	filterClauses[*UpdateBuilder]
	setClauses[*UpdateBuilder]
}

func newUpdateBuilder(s *Statement) *UpdateBuilder {
	b := &UpdateBuilder{Statement: s}
	c := chain[*UpdateBuilder]{stmt: s, self: b}
	b.commentClauses = commentClauses[*UpdateBuilder]{c}
	b.joinClauses = joinClauses[*UpdateBuilder]{c}
	b.filterClauses = filterClauses[*UpdateBuilder]{c}
	b.setClauses = setClauses[*UpdateBuilder]{c}
	return b
}

// Update, güncellenecek tablo referansı ekler.
func (b *UpdateBuilder) Update(expr any, params ...any) *UpdateBuilder {
	return b.setClauses.with("update", expr, params)
}

// LowPriority, LOW_PRIORITY niteleyicisini ayarlar.
func (b *UpdateBuilder) LowPriority() *UpdateBuilder {
	b.apply("lowPriority")
	return b
}

// Ignore, IGNORE niteleyicisini ayarlar.
func (b *UpdateBuilder) Ignore() *UpdateBuilder {
	b.apply("ignore")
	return b
}

// Clone, builder'ın derlenmemiş bir kopyasını döndürür.
func (b *UpdateBuilder) Clone() *UpdateBuilder {
	return newUpdateBuilder(b.Statement.clone())
}

func (r *renderer) updateStatement() {
	r.comment(bufHeader)
	r.flags(bufUpdate, []string{bufPriority, bufIgnore}, decIndent|decLabel)
	if r.has(bufUpdate) {
		r.list(bufUpdate, decEOL)
	} else {
		r.sb.WriteByte('\n')
	}
	r.joins(bufJoin)
	r.list(bufSet, decIndent|decLabel|decEOL)
	r.conditions(bufWhere)
	r.list(bufOrderBy, decIndent|decLabel|decEOL)
	r.list(bufLimit, decIndent|decLabel|decEOL)
	r.comment(bufFooter)
}
