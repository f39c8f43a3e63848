// Package dialect, Flupdo'nun desteklediği SQL lehçelerini (MySQL, Sphinx, SQLite)
// tanımlar. Bir lehçe; identifier tırnaklama karakterini, string literal kaçış
// kurallarını ve WHERE/HAVING koşullarının parantez içine alınıp alınamayacağını
// belirler.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package dialect

import (
	"fmt"
	"strings"
)

// Quoter, bir string literal'ini veritabanı için kaçışlar ve tırnak içine alır.
type Quoter interface {
	QuoteString(s string) string
}

// QuoterFunc, bir fonksiyonu Quoter arayüzüne uyarlar.
type QuoterFunc func(s string) string

// QuoteString, f(s) çağırır.
func (f QuoterFunc) QuoteString(s string) string { return f(s) }

// Dialect, statement'ın derlendiği SQL lehçesini tanımlar.
type Dialect struct {
	name       string
	identQuote string
	noParens   bool
	escape     func(string) string
}

var (
	// MySQL varsayılan lehçedir: backtick identifier, ters bölü ile kaçış.
	MySQL = Dialect{name: "mysql", identQuote: "`", escape: escapeBackslash}

	// Sphinx MySQL protokolünü konuşur ama parantezli koşul gruplarını reddeder.
	Sphinx = Dialect{name: "sphinx", identQuote: "`", noParens: true, escape: escapeBackslash}

	// SQLite backtick identifier kabul eder, string literal içinde tırnakları ikiler.
	SQLite = Dialect{name: "sqlite", identQuote: "`", escape: escapeDoubling}
)

// ForDriver, bir database/sql sürücü adına karşılık gelen lehçeyi döndürür.
func ForDriver(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "mysql", "mariadb":
		return MySQL, nil
	case "sphinx", "manticore":
		return Sphinx, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("dialect: unsupported driver %q", driver)
	}
}

// Name, lehçe adını döndürür; örneğin "mysql".
func (d Dialect) Name() string {
	if d.name == "" {
		return MySQL.name
	}
	return d.name
}

// NoParenthesisInConditions, WHERE ve HAVING koşullarının parantezsiz
// yazılması gerekip gerekmediğini bildirir.
func (d Dialect) NoParenthesisInConditions() bool {
	return d.noParens
}

// WithNoParenthesisInConditions, parantez kuralı v olarak ayarlanmış bir d
// kopyası döndürür.
func (d Dialect) WithNoParenthesisInConditions(v bool) Dialect {
	d.noParens = v
	return d
}

// QuoteIdent, name'i identifier tırnaklarıyla sarar. Noktalar nitelikli
// parçaları ayırır: "db.table" → `db`.`table`. İçerideki tırnak karakterleri
// ikilenir.
func (d Dialect) QuoteIdent(name string) string {
	q := d.identQuote
	if q == "" {
		q = MySQL.identQuote
	}

	var sb strings.Builder
	sb.Grow(len(name) + 4)
	sb.WriteString(q)
	for _, r := range name {
		switch string(r) {
		case q:
			sb.WriteString(q)
			sb.WriteString(q)
		case ".":
			sb.WriteString(q)
			sb.WriteByte('.')
			sb.WriteString(q)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString(q)
	return sb.String()
}

// QuoteIdents, her isme QuoteIdent uygular.
func (d Dialect) QuoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = d.QuoteIdent(n)
	}
	return out
}

// QuoteString, s'yi tek tırnaklı bir string literal olarak döndürür.
func (d Dialect) QuoteString(s string) string {
	esc := d.escape
	if esc == nil {
		esc = escapeBackslash
	}
	return "'" + esc(s) + "'"
}

// escapeBackslash, s'yi NO_BACKSLASH_ESCAPES kapalı bağlantılarda MySQL'in
// mysql_real_escape_string fonksiyonu gibi kaçışlar.
func escapeBackslash(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case 0:
			sb.WriteString(`\0`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\x1a':
			sb.WriteString(`\Z`)
		case '\'':
			sb.WriteString(`\'`)
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func escapeDoubling(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
