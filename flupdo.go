package flupdo

import "github.com/biyonik/go-flupdo/dialect"

// Version, kütüphane sürümüdür.
const Version = "0.2.0"

// Select, MySQL lehçesini kullanan bağımsız bir SELECT builder döndürür.
// Bağımsız builder'lar derlenebilir ve başka statement'lara gömülebilir,
// ancak çalıştırılamaz.
func Select(args ...any) *SelectBuilder { return settings{}.newSelect(args) }

// Insert, bağımsız bir INSERT builder döndürür.
func Insert(args ...any) *InsertBuilder { return settings{}.newInsert(args) }

// Update, bağımsız bir UPDATE builder döndürür.
func Update(args ...any) *UpdateBuilder { return settings{}.newUpdate(args) }

// Delete, bağımsız bir DELETE builder döndürür.
func Delete(args ...any) *DeleteBuilder { return settings{}.newDelete(args) }

// Replace, bağımsız bir REPLACE builder döndürür.
func Replace(args ...any) *ReplaceBuilder { return settings{}.newReplace(args) }

// RawQuery, bağımsız bir ham SQL builder döndürür.
func RawQuery(args ...any) *RawQueryBuilder { return settings{}.newRawQuery(args) }

// QuoteIdent, bir identifier'ı MySQL için quote eder: "a.b" → `a`.`b`.
func QuoteIdent(name string) string {
	return dialect.MySQL.QuoteIdent(name)
}

// QuoteIdents, names içindeki her identifier'ı quote eder.
func QuoteIdents(names ...string) []string {
	return dialect.MySQL.QuoteIdents(names)
}

// Quote, v'yi bir MySQL literal'ine çevirir.
func Quote(v any) string {
	return quoteValue(dialect.MySQL, v)
}

func (st settings) newSelect(args []any) *SelectBuilder {
	b := newSelectBuilder(newStatement(KindSelect, selectRegistry, st))
	if len(args) > 0 {
		b.apply("select", args...)
	}
	return b
}

func (st settings) newInsert(args []any) *InsertBuilder {
	b := newInsertBuilder(newStatement(KindInsert, insertRegistry, st))
	if len(args) > 0 {
		b.apply("insert", args...)
	}
	return b
}

func (st settings) newUpdate(args []any) *UpdateBuilder {
	b := newUpdateBuilder(newStatement(KindUpdate, updateRegistry, st))
	if len(args) > 0 {
		b.apply("update", args...)
	}
	return b
}

func (st settings) newDelete(args []any) *DeleteBuilder {
	b := newDeleteBuilder(newStatement(KindDelete, deleteRegistry, st))
	if len(args) > 0 {
		b.apply("delete", args...)
	}
	return b
}

func (st settings) newReplace(args []any) *ReplaceBuilder {
	b := newReplaceBuilder(newStatement(KindReplace, replaceRegistry, st))
	if len(args) > 0 {
		b.apply("replace", args...)
	}
	return b
}

func (st settings) newRawQuery(args []any) *RawQueryBuilder {
	b := newRawQueryBuilder(newStatement(KindRaw, rawQueryRegistry, st))
	if len(args) > 0 {
		b.apply("rawQuery", args...)
	}
	return b
}
