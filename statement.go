package flupdo

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/biyonik/go-flupdo/dialect"
	"github.com/biyonik/go-flupdo/internal/clause"
)

// Kind, bir builder'ın ürettiği SQL statement türünü belirtir.
type Kind uint8

const (
	KindSelect Kind = iota + 1
	KindInsert
	KindUpdate
	KindDelete
	KindReplace
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "SELECT"
	case KindInsert:
		return "INSERT"
	case KindUpdate:
		return "UPDATE"
	case KindDelete:
		return "DELETE"
	case KindReplace:
		return "REPLACE"
	case KindRaw:
		return "RAW"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

const (
	defaultIndent    = "\t"
	defaultSubIndent = "\t\t"
)

// Statement, tüm statement builder'ların paylaştığı durumdur: clause
// buffer'ları, fabrikadan devralınan ayarlar ve derlenmiş sonuç önbelleği.
//
// Statement zincirleme clause çağrılarıyla kurulur ve ilk kullanımda
// derlenir. Derlendikten sonra dondurulur; Uncompile çağrılana kadar yeni
// clause çağrıları ErrAlreadyCompiled ile başarısız olur.
//
// Zincirleme metotlar ilk hatayı kaydeder ve sonraki çağrıları etkisiz
// bırakır; hata Compile, Exec ve Query tarafından döndürülür. Call ise
// hatayı doğrudan döndürür.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
type Statement struct {
	settings

	kind     Kind
	registry clause.Registry
	buffers  clause.Store

	indent    string
	subIndent string

	compiled bool
	sql      string
	params   []any

	err error
}

func newStatement(kind Kind, registry clause.Registry, st settings) *Statement {
	return &Statement{
		settings:  st.normalized(),
		kind:      kind,
		registry:  registry,
		indent:    defaultIndent,
		subIndent: defaultSubIndent,
	}
}

// Kind, statement türünü döndürür.
func (s *Statement) Kind() Kind {
	return s.kind
}

// Call, name adıyla kayıtlı clause'u uygular. Tek argüman olarak nil
// verilirse clause silinir.
func (s *Statement) Call(name string, args ...any) error {
	reg, ok := s.registry.Lookup(name)
	if !ok {
		return &ClauseError{Kind: s.kind, Clause: name, Err: ErrUnknownClause}
	}
	if s.compiled {
		return &ClauseError{Kind: s.kind, Clause: name, Buffer: reg.Buffer, Err: ErrAlreadyCompiled}
	}

	if len(args) == 1 && args[0] == nil {
		s.buffers.Delete(reg.Buffer)
		return nil
	}

	reg.Apply(&s.buffers, clause.NewGroup(args, literalText))
	return nil
}

// apply, Call'ın zincirleme biçimidir.
func (s *Statement) apply(name string, args ...any) {
	if s.err != nil {
		return
	}
	if err := s.Call(name, args...); err != nil {
		s.err = err
	}
}

// fail, daha önce kaydedilmiş bir hata yoksa err'i kaydeder.
func (s *Statement) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Err, zincirleme bir clause çağrısının kaydettiği ilk hatayı döndürür.
func (s *Statement) Err() error {
	return s.err
}

// Compiled, statement'ın derlenmiş bir sonuç tutup tutmadığını bildirir.
func (s *Statement) Compiled() bool {
	return s.compiled
}

// Compile, statement'ı derler ve SQL metnini placeholder sırasındaki
// parametrelerle birlikte döndürür. Sonuç önbelleğe alınır; Uncompile
// çağrılana kadar sonraki çağrılar aynı metni döndürür.
func (s *Statement) Compile() (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	if !s.compiled {
		query, params, err := s.render(s.indent, s.subIndent)
		if err != nil {
			return "", nil, err
		}
		s.sql, s.params, s.compiled = query, params, true

		if s.logQuery {
			s.logger.Info("sql query", slog.String("phase", "compile"), slog.String("kind", s.kind.String()),
				slog.String("sql", s.sql), slog.Any("params", s.params))
		}
	}
	return s.sql, slices.Clone(s.params), nil
}

// MustCompile, Compile gibidir ancak hata durumunda panic eder.
func (s *Statement) MustCompile() (string, []any) {
	query, params, err := s.Compile()
	if err != nil {
		panic(err)
	}
	return query, params
}

// CompileNested, statement'ı başka bir statement'ın içine gömmek için
// derler. s'nin önbelleği okunmaz ve yazılmaz.
func (s *Statement) CompileNested(indent, subIndent string) (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.render(indent, subIndent)
}

// Uncompile, derlenmiş sonucu atar ve statement'ı yeniden değiştirilebilir
// hale getirir. Clause buffer'ları korunur.
func (s *Statement) Uncompile() {
	s.compiled = false
	s.sql = ""
	s.params = nil
}

// String, derlenmiş SQL metnini döndürür. String hata döndüremediği için
// derlenemeyen statement loglanır ve String panic eder.
func (s *Statement) String() string {
	query, _, err := s.Compile()
	if err != nil {
		s.logger.Error("flupdo: cannot render statement", slog.String("kind", s.kind.String()), slog.Any("error", err))
		panic(err)
	}
	return query
}

// SQL, gerekirse derleyerek SQL metnini döndürür.
func (s *Statement) SQL() (string, error) {
	query, _, err := s.Compile()
	return query, err
}

// Params, gerekirse derleyerek parametreleri döndürür.
func (s *Statement) Params() ([]any, error) {
	_, params, err := s.Compile()
	return params, err
}

// Quote, v'yi statement'ın lehçesiyle bir SQL literal'ine çevirir.
func (s *Statement) Quote(v any) string {
	return quoteValue(s.quoter, v)
}

// QuoteIdent, bir identifier'ı statement'ın lehçesiyle quote eder.
func (s *Statement) QuoteIdent(name string) string {
	return s.dialect.QuoteIdent(name)
}

// Dialect, statement'ın derlendiği lehçeyi döndürür.
func (s *Statement) Dialect() dialect.Dialect {
	return s.dialect
}

// clone, s ile buffer paylaşmayan derlenmemiş bir kopya döndürür.
func (s *Statement) clone() *Statement {
	c := &Statement{
		settings:  s.settings,
		kind:      s.kind,
		registry:  s.registry,
		buffers:   s.buffers.Clone(),
		indent:    s.indent,
		subIndent: s.subIndent,
		err:       s.err,
	}
	return c
}

func (s *Statement) render(indent, subIndent string) (string, []any, error) {
	r := &renderer{
		kind:      s.kind,
		store:     &s.buffers,
		quoter:    s.quoter,
		noParens:  s.dialect.NoParenthesisInConditions(),
		indent:    indent,
		subIndent: subIndent,
	}

	switch s.kind {
	case KindSelect:
		r.selectStatement()
	case KindInsert:
		r.insertStatement()
	case KindUpdate:
		r.updateStatement()
	case KindDelete:
		r.deleteStatement()
	case KindReplace:
		r.replaceStatement()
	case KindRaw:
		r.rawStatement()
	default:
		return "", nil, &ClauseError{Kind: s.kind, Err: fmt.Errorf("%w: no compiler for statement kind", ErrUnsupportedFragment)}
	}
	return r.finish()
}

// chain, bir statement'ı ve zincirleme clause metotlarının döndürdüğü
// builder'ı taşır.
type chain[B any] struct {
	stmt *Statement
	self B
}

func (c chain[B]) call(name string, args ...any) B {
	c.stmt.apply(name, args...)
	return c.self
}

func (c chain[B]) with(name string, expr any, params []any) B {
	args := make([]any, 0, len(params)+1)
	args = append(args, expr)
	args = append(args, params...)
	c.stmt.apply(name, args...)
	return c.self
}
