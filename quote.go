package flupdo

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/biyonik/go-flupdo/dialect"
)

// quoteValue, v'yi bir SQL literal'ine çevirir.
//
//	bool     -> TRUE / FALSE
//	nil      -> NULL
//	integers -> decimal
//	floats   -> fixed notation, six decimals
//	Raw      -> verbatim
//
// Diğer her şey metne çevrilir ve q ile quote edilir.
func quoteValue(q dialect.Quoter, v any) string {
	if valuer, ok := v.(driver.Valuer); ok {
		if resolved, err := valuer.Value(); err == nil {
			v = resolved
		}
	}

	switch x := v.(type) {
	case nil:
		return "NULL"
	case Raw:
		return x.SQL
	case *Raw:
		if x == nil {
			return "NULL"
		}
		return x.SQL
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case string:
		return q.QuoteString(x)
	case []byte:
		return q.QuoteString(string(x))
	case time.Time:
		return q.QuoteString(x.Format("2006-01-02 15:04:05.999999"))
	}

	// İsimli skaler tipler (type Status int) fmt.Stringer uygulasalar da
	// kendi türleriyle yazılır.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return quoteValue(q, rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return quoteValue(q, rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return quoteValue(q, rv.Uint())
	case reflect.Float32, reflect.Float64:
		return quoteValue(q, rv.Float())
	case reflect.String:
		return q.QuoteString(rv.String())
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL"
		}
		if isScalar(rv.Elem().Kind()) {
			return quoteValue(q, rv.Elem().Interface())
		}
	}

	if s, ok := v.(fmt.Stringer); ok {
		return q.QuoteString(s.String())
	}
	if rv.Kind() == reflect.Pointer {
		return quoteValue(q, rv.Elem().Interface())
	}
	return q.QuoteString(fmt.Sprint(v))
}

// formatFloat, f'yi sabit gösterimle yazar. NaN ve sonsuz değerlerin SQL
// karşılığı yoktur, NULL olarak yazılır.
func formatFloat(f float64, bitSize int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NULL"
	}
	return strconv.FormatFloat(f, 'f', 6, bitSize)
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Interpolate, query içindeki her ? placeholder'ını soldan sağa eşleşen
// quote edilmiş parametreyle değiştirir. Tırnak içindeki soru işaretleri
// placeholder sayılmaz. Sonuç log ve EXPLAIN içindir; güvenilmeyen girdiden
// kurulan statement'ları çalıştırmak için kullanılmamalıdır. Parametresi
// olmayan placeholder'lar olduğu gibi bırakılır.
func Interpolate(q dialect.Quoter, query string, params []any) string {
	if len(params) == 0 {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 16*len(params))
	last := 0
	for i, pos := range placeholders(query) {
		if i >= len(params) {
			break
		}
		sb.WriteString(query[last:pos])
		sb.WriteString(quoteValue(q, params[i]))
		last = pos + 1
	}
	sb.WriteString(query[last:])
	return sb.String()
}

// placeholders, query içindeki ? placeholder'larının byte konumlarını
// döndürür. '...', "..." ve `...` içindeki soru işaretleri atlanır; string
// literal içinde ters bölü bir sonraki byte'ı kaçışlar.
func placeholders(query string) []int {
	var out []int
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == '\\' && quote != '`' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '?':
			out = append(out, i)
		}
	}
	return out
}

// bindValue, v'yi database/sql sürücülerinin kabul ettiği bir tipe çevirir.
// İsimli skaler tipler temel türlerine indirgenir, diğerleri metin olarak
// bind edilir.
func bindValue(v any) any {
	switch x := v.(type) {
	case nil, bool, string, []byte, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case Raw:
		return x.SQL
	case driver.Valuer:
		return x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		if isScalar(rv.Elem().Kind()) {
			return bindValue(rv.Elem().Interface())
		}
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	if rv.Kind() == reflect.Pointer {
		return bindValue(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func bindValues(params []any) []any {
	if len(params) == 0 {
		return nil
	}
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = bindValue(p)
	}
	return out
}
