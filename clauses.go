package flupdo

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/biyonik/go-flupdo/internal/clause"
)

// Birden fazla statement türünün paylaştığı clause tabloları. Her tür,
// desteklediği tabloları kendi registry'sinde birleştirir.
var (
	commentRegistry = clause.Registry{
		"headerComment": {Action: clause.Replace, Buffer: bufHeader},
		"footerComment": {Action: clause.Replace, Buffer: bufFooter},
	}

	joinRegistry = clause.Registry{
		"join":                  {Action: clause.AddJoin, Buffer: bufJoin, Label: "JOIN"},
		"innerJoin":             {Action: clause.AddJoin, Buffer: bufJoin, Label: "INNER JOIN"},
		"crossJoin":             {Action: clause.AddJoin, Buffer: bufJoin, Label: "CROSS JOIN"},
		"straightJoinOn":        {Action: clause.AddJoin, Buffer: bufJoin, Label: "STRAIGHT_JOIN"},
		"leftJoin":              {Action: clause.AddJoin, Buffer: bufJoin, Label: "LEFT JOIN"},
		"rightJoin":             {Action: clause.AddJoin, Buffer: bufJoin, Label: "RIGHT JOIN"},
		"leftOuterJoin":         {Action: clause.AddJoin, Buffer: bufJoin, Label: "LEFT OUTER JOIN"},
		"rightOuterJoin":        {Action: clause.AddJoin, Buffer: bufJoin, Label: "RIGHT OUTER JOIN"},
		"naturalLeftJoin":       {Action: clause.AddJoin, Buffer: bufJoin, Label: "NATURAL LEFT JOIN"},
		"naturalRightJoin":      {Action: clause.AddJoin, Buffer: bufJoin, Label: "NATURAL RIGHT JOIN"},
		"naturalLeftOuterJoin":  {Action: clause.AddJoin, Buffer: bufJoin, Label: "NATURAL LEFT OUTER JOIN"},
		"naturalRightOuterJoin": {Action: clause.AddJoin, Buffer: bufJoin, Label: "NATURAL RIGHT OUTER JOIN"},
	}

	filterRegistry = clause.Registry{
		"where":   {Action: clause.Add, Buffer: bufWhere},
		"orderBy": {Action: clause.Add, Buffer: bufOrderBy},
		"limit":   {Action: clause.Replace, Buffer: bufLimit},
	}

	selectFamilyRegistry = clause.Registry{
		"select":           {Action: clause.Add, Buffer: bufSelect},
		"selectFirst":      {Action: clause.Add, Buffer: bufSelectFirst},
		"all":              {Action: clause.SetFlag, Buffer: bufDistinct, Label: "ALL"},
		"distinct":         {Action: clause.SetFlag, Buffer: bufDistinct, Label: "DISTINCT"},
		"distinctRow":      {Action: clause.SetFlag, Buffer: bufDistinct, Label: "DISTINCTROW"},
		"straightJoin":     {Action: clause.SetFlag, Buffer: bufStraightJoin, Label: "STRAIGHT_JOIN"},
		"sqlSmallResult":   {Action: clause.SetFlag, Buffer: bufResultSize, Label: "SQL_SMALL_RESULT"},
		"sqlBigResult":     {Action: clause.SetFlag, Buffer: bufResultSize, Label: "SQL_BIG_RESULT"},
		"sqlBufferResult":  {Action: clause.SetFlag, Buffer: bufBufferResult, Label: "SQL_BUFFER_RESULT"},
		"sqlCache":         {Action: clause.SetFlag, Buffer: bufCache, Label: "SQL_CACHE"},
		"sqlNoCache":       {Action: clause.SetFlag, Buffer: bufCache, Label: "SQL_NO_CACHE"},
		"sqlCalcFoundRows": {Action: clause.SetFlag, Buffer: bufCalcFoundRows, Label: "SQL_CALC_FOUND_ROWS"},
		"from":             {Action: clause.Replace, Buffer: bufFrom},
		"groupBy":          {Action: clause.Add, Buffer: bufGroupBy},
		"withRollup":       {Action: clause.SetFlag, Buffer: bufRollup, Label: "WITH ROLLUP"},
		"having":           {Action: clause.Add, Buffer: bufHaving},
		"offset":           {Action: clause.Replace, Buffer: bufOffset},
	}

	setRegistry = clause.Registry{
		"set": {Action: clause.Add, Buffer: bufSet},
	}
)

// commentClauses, builder'a başlık ve son yorum satırları ekler.
type commentClauses[B any] struct{ chain[B] }

// HeaderComment, statement'tan önce yazılan yorumu belirler. String slice
// verilirse her eleman ayrı bir satır olur.
func (c commentClauses[B]) HeaderComment(text any) B { return c.call("headerComment", text) }

// FooterComment, statement'tan sonra yazılan yorumu belirler.
func (c commentClauses[B]) FooterComment(text any) B { return c.call("footerComment", text) }

// joinClauses, tablo join'leri ekler. İfade, bağlanan tablo ve koşuludur:
// "`b` ON `a`.`id` = `b`.`a_id`" gibi.
type joinClauses[B any] struct{ chain[B] }

// Join, JOIN ekler.
func (c joinClauses[B]) Join(expr any, params ...any) B {
	return c.with("join", expr, params)
}

// InnerJoin, INNER JOIN ekler.
func (c joinClauses[B]) InnerJoin(expr any, params ...any) B {
	return c.with("innerJoin", expr, params)
}

// CrossJoin, CROSS JOIN ekler.
func (c joinClauses[B]) CrossJoin(expr any, params ...any) B {
	return c.with("crossJoin", expr, params)
}

// StraightJoinOn, STRAIGHT_JOIN tablo join'i ekler. SELECT niteleyicisi için
// StraightJoin'e bakın.
func (c joinClauses[B]) StraightJoinOn(expr any, params ...any) B {
	return c.with("straightJoinOn", expr, params)
}

// LeftJoin, LEFT JOIN ekler.
func (c joinClauses[B]) LeftJoin(expr any, params ...any) B {
	return c.with("leftJoin", expr, params)
}

// RightJoin, RIGHT JOIN ekler.
func (c joinClauses[B]) RightJoin(expr any, params ...any) B {
	return c.with("rightJoin", expr, params)
}

// LeftOuterJoin, LEFT OUTER JOIN ekler.
func (c joinClauses[B]) LeftOuterJoin(expr any, params ...any) B {
	return c.with("leftOuterJoin", expr, params)
}

// RightOuterJoin, RIGHT OUTER JOIN ekler.
func (c joinClauses[B]) RightOuterJoin(expr any, params ...any) B {
	return c.with("rightOuterJoin", expr, params)
}

// NaturalLeftJoin, NATURAL LEFT JOIN ekler.
func (c joinClauses[B]) NaturalLeftJoin(expr any, params ...any) B {
	return c.with("naturalLeftJoin", expr, params)
}

// NaturalRightJoin, NATURAL RIGHT JOIN ekler.
func (c joinClauses[B]) NaturalRightJoin(expr any, params ...any) B {
	return c.with("naturalRightJoin", expr, params)
}

// NaturalLeftOuterJoin, NATURAL LEFT OUTER JOIN ekler.
func (c joinClauses[B]) NaturalLeftOuterJoin(expr any, params ...any) B {
	return c.with("naturalLeftOuterJoin", expr, params)
}

// NaturalRightOuterJoin, NATURAL RIGHT OUTER JOIN ekler.
func (c joinClauses[B]) NaturalRightOuterJoin(expr any, params ...any) B {
	return c.with("naturalRightOuterJoin", expr, params)
}

// filterClauses, WHERE, ORDER BY ve LIMIT ekler.
type filterClauses[B any] struct{ chain[B] }

// Where, bir koşul ekler. Koşullar AND ile birleştirilir.
//
//	Where("`id` = ?", 10)
//	Where([]any{"`id` IN", sub})
//	Where(nil) // removes all conditions
func (c filterClauses[B]) Where(expr any, params ...any) B {
	return c.with("where", expr, params)
}

// OrderBy, ORDER BY ifadesi ekler.
func (c filterClauses[B]) OrderBy(expr any, params ...any) B {
	return c.with("orderBy", expr, params)
}

// Limit, LIMIT clause'unu değiştirir.
func (c filterClauses[B]) Limit(expr any, params ...any) B {
	return c.with("limit", expr, params)
}

// selectClauses, SELECT clause'larını tutar. INSERT ... SELECT ve
// REPLACE ... SELECT de bunları kullanır.
type selectClauses[B any] struct{ chain[B] }

// Select, bir select ifadesi ekler.
func (c selectClauses[B]) Select(expr any, params ...any) B {
	return c.with("select", expr, params)
}

// SelectFirst, tüm Select ifadelerinden önce yazılan bir ifade ekler.
func (c selectClauses[B]) SelectFirst(expr any, params ...any) B {
	return c.with("selectFirst", expr, params)
}

// All, ALL niteleyicisini ayarlar. DISTINCT ve DISTINCTROW ile aynı bayrağı paylaşır.
func (c selectClauses[B]) All() B { return c.call("all") }

// Distinct, DISTINCT niteleyicisini ayarlar.
func (c selectClauses[B]) Distinct() B { return c.call("distinct") }

// DistinctRow, DISTINCTROW niteleyicisini ayarlar.
func (c selectClauses[B]) DistinctRow() B { return c.call("distinctRow") }

// StraightJoin, STRAIGHT_JOIN SELECT niteleyicisini ayarlar. Tablo join'i
// için StraightJoinOn kullanılır.
func (c selectClauses[B]) StraightJoin() B { return c.call("straightJoin") }

// SQLSmallResult, SQL_SMALL_RESULT ipucunu ayarlar.
func (c selectClauses[B]) SQLSmallResult() B { return c.call("sqlSmallResult") }

// SQLBigResult, SQL_BIG_RESULT ipucunu ayarlar. SQL_SMALL_RESULT'ın yerini alır.
func (c selectClauses[B]) SQLBigResult() B { return c.call("sqlBigResult") }

// SQLBufferResult, SQL_BUFFER_RESULT ipucunu ayarlar.
func (c selectClauses[B]) SQLBufferResult() B { return c.call("sqlBufferResult") }

// SQLCache, SQL_CACHE ipucunu ayarlar.
func (c selectClauses[B]) SQLCache() B { return c.call("sqlCache") }

// SQLNoCache, SQL_NO_CACHE ipucunu ayarlar.
func (c selectClauses[B]) SQLNoCache() B { return c.call("sqlNoCache") }

// SQLCalcFoundRows, SQL_CALC_FOUND_ROWS ipucunu ayarlar.
func (c selectClauses[B]) SQLCalcFoundRows() B { return c.call("sqlCalcFoundRows") }

// WithRollup, GROUP BY satırından sonra WITH ROLLUP yazar.
func (c selectClauses[B]) WithRollup() B { return c.call("withRollup") }

// From, FROM clause'unu değiştirir.
func (c selectClauses[B]) From(expr any, params ...any) B {
	return c.with("from", expr, params)
}

// GroupBy, GROUP BY ifadesi ekler.
func (c selectClauses[B]) GroupBy(expr any, params ...any) B {
	return c.with("groupBy", expr, params)
}

// Having, HAVING koşulu ekler. Koşullar AND ile birleştirilir.
func (c selectClauses[B]) Having(expr any, params ...any) B {
	return c.with("having", expr, params)
}

// Offset, OFFSET clause'unu değiştirir. OFFSET yalnızca LIMIT ile birlikte yazılır.
func (c selectClauses[B]) Offset(expr any, params ...any) B {
	return c.with("offset", expr, params)
}

// setClauses, SET atamaları ekler.
type setClauses[B any] struct{ chain[B] }

// Set, bir atama ekler: Set("`name` = ?", name). String anahtarlı bir map
// verilirse SetMap gibi açılır; başka anahtar tipleri ErrUnsupportedFragment
// hatası kaydeder.
func (c setClauses[B]) Set(expr any, params ...any) B {
	if m, ok := expr.(map[string]any); ok && len(params) == 0 {
		return c.SetMap(m)
	}
	if rv := reflect.ValueOf(expr); rv.Kind() == reflect.Map {
		if rv.Type().Key().Kind() != reflect.String || len(params) > 0 {
			c.stmt.fail(&ClauseError{
				Kind:   c.stmt.kind,
				Clause: "set",
				Buffer: bufSet,
				Err:    fmt.Errorf("%w: SET map must have string keys and no params, got %T", ErrUnsupportedFragment, expr),
			})
			return c.self
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return c.SetMap(m)
	}
	return c.with("set", expr, params)
}

// SetMap, her kayıt için bir "`kolon` = ?" ataması ekler. Kolonlar sıralıdır.
func (c setClauses[B]) SetMap(values map[string]any) B {
	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	for _, col := range columns {
		c.stmt.apply("set", c.stmt.QuoteIdent(col)+" = ?", values[col])
	}
	return c.self
}

// SetStruct, v struct'ının her alanı için `db` tag'ine göre bir atama ekler.
// Sıfır değerli primary key atlanır.
func (c setClauses[B]) SetStruct(v any) B {
	columns, values, err := defaultScanner.FieldValues(v)
	if err != nil {
		c.stmt.fail(err)
		return c.self
	}
	for i, col := range columns {
		c.stmt.apply("set", c.stmt.QuoteIdent(col)+" = ?", values[i])
	}
	return c.self
}
