package flupdo

import "github.com/biyonik/go-flupdo/internal/clause"

var rawQueryRegistry = commentRegistry.Merge(clause.Registry{
	"rawQuery": {Action: clause.Add, Buffer: bufRawQuery},
})

// RawQueryBuilder, elle yazılmış SQL'i tutar. Her RawQuery çağrısı bir satır
// ekler; iç içe statement'lar alt sorgu gibi girintilenir. UNION ve
// CREATE TABLE ... AS (SELECT ...) için uygundur.
//
//	db.RawQuery("CREATE TABLE `archive` AS").
//		RawQuery(db.Select("*").From("`orders`").Where("`year` < ?", 2020))
type RawQueryBuilder struct {
	*Statement
	commentClauses[*RawQueryBuilder]
}

func newRawQueryBuilder(s *Statement) *RawQueryBuilder {
	b := &RawQueryBuilder{Statement: s}
	b.commentClauses = commentClauses[*RawQueryBuilder]{chain[*RawQueryBuilder]{stmt: s, self: b}}
	return b
}

// RawQuery, parametreleriyle birlikte bir parça ekler.
func (b *RawQueryBuilder) RawQuery(expr any, params ...any) *RawQueryBuilder {
	return b.with("rawQuery", expr, params)
}

// Clone, builder'ın derlenmemiş bir kopyasını döndürür.
func (b *RawQueryBuilder) Clone() *RawQueryBuilder {
	return newRawQueryBuilder(b.Statement.clone())
}

func (r *renderer) rawStatement() {
	r.comment(bufHeader)
	r.list(bufRawQuery, decIndent|decNoSeparator|decEOL)
	r.comment(bufFooter)
}
