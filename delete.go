package flupdo

import "github.com/biyonik/go-flupdo/internal/clause"

var deleteRegistry = commentRegistry.Merge(joinRegistry, filterRegistry, clause.Registry{
	"delete":      {Action: clause.Add, Buffer: bufDelete},
	"from":        {Action: clause.Replace, Buffer: bufFrom},
	"lowPriority": {Action: clause.SetFlag, Buffer: bufPriority, Label: "LOW_PRIORITY"},
	"quick":       {Action: clause.SetFlag, Buffer: bufQuick, Label: "QUICK"},
	"ignore":      {Action: clause.SetFlag, Buffer: bufIgnore, Label: "IGNORE"},
})

// DeleteBuilder, DELETE statement'ı oluşturur. Delete ile tablo eklenirse
// çok tablolu biçim (DELETE t1, t2 FROM ...) kullanılır.
type DeleteBuilder struct {
	*Statement
	commentClauses[*DeleteBuilder]
	joinClauses[*DeleteBuilder]
	filterClauses[*DeleteBuilder]
}

func newDeleteBuilder(s *Statement) *DeleteBuilder {
	b := &DeleteBuilder{Statement: s}
	c := chain[*DeleteBuilder]{stmt: s, self: b}
	b.commentClauses = commentClauses[*DeleteBuilder]{c}
	b.joinClauses = joinClauses[*DeleteBuilder]{c}
	b.filterClauses = filterClauses[*DeleteBuilder]{c}
	return b
}

// Delete, satırları silinecek bir tablo ekler.
func (b *DeleteBuilder) Delete(expr any, params ...any) *DeleteBuilder {
	return b.filterClauses.with("delete", expr, params)
}

// From, FROM clause'unu değiştirir.
func (b *DeleteBuilder) From(expr any, params ...any) *DeleteBuilder {
	return b.filterClauses.with("from", expr, params)
}

// LowPriority, LOW_PRIORITY niteleyicisini ayarlar.
func (b *DeleteBuilder) LowPriority() *DeleteBuilder { return b.flag("lowPriority") }

// Quick, QUICK niteleyicisini ayarlar.
func (b *DeleteBuilder) Quick() *DeleteBuilder { return b.flag("quick") }

// Ignore, IGNORE niteleyicisini ayarlar.
func (b *DeleteBuilder) Ignore() *DeleteBuilder { return b.flag("ignore") }

// Clone, builder'ın derlenmemiş bir kopyasını döndürür.
func (b *DeleteBuilder) Clone() *DeleteBuilder {
	return newDeleteBuilder(b.Statement.clone())
}

func (b *DeleteBuilder) flag(name string) *DeleteBuilder {
	b.apply(name)
	return b
}

func (r *renderer) deleteStatement() {
	r.comment(bufHeader)
	r.flags(bufDelete, []string{bufPriority, bufQuick, bufIgnore}, decIndent|decLabel)
	if r.has(bufDelete) {
		r.list(bufDelete, decEOL)
	} else {
		r.sb.WriteByte('\n')
	}
	r.list(bufFrom, decIndent|decLabel|decEOL)
	r.joins(bufJoin)
	r.conditions(bufWhere)
	r.list(bufOrderBy, decIndent|decLabel|decEOL)
	r.list(bufLimit, decIndent|decLabel|decEOL)
	r.comment(bufFooter)
}
