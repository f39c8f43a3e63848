package flupdo

import (
	"log/slog"

	"github.com/biyonik/go-flupdo/dialect"
)

// -----------------------------------------------------------------------------
//  Bu dosya; Flupdo fabrikasının yapılandırma katmanını oluşturan *Option*
//  fonksiyonlarını içerir. Fabrikadan üretilen her statement builder, bu
//  ayarların bir kopyasını devralır: lehçe, string quoter, logger ve
//  sorgu/EXPLAIN loglama bayrakları.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// Option, bir *Flupdo* örneği üzerinde çalışan yapılandırma fonksiyonlarının
// temel imzasıdır.
type Option func(*Flupdo)

// settings, fabrikadan builder'lara aktarılan ortak ayarlardır.
type settings struct {
	exec       Executor
	dialect    dialect.Dialect
	quoter     dialect.Quoter
	logger     *slog.Logger
	logQuery   bool
	logExplain bool
	scanner    Scanner
}

// normalized, boş bırakılan alanları varsayılan değerlerle doldurur.
func (st settings) normalized() settings {
	if st.quoter == nil {
		st.quoter = st.dialect
	}
	if st.logger == nil {
		st.logger = slog.New(slog.DiscardHandler)
	}
	if st.scanner == nil {
		st.scanner = defaultScanner
	}
	return st
}

// WithDialect, builder'ların kullanacağı SQL lehçesini belirler.
// Varsayılan lehçe dialect.MySQL'dir.
//
// Örnek:
//
//	db := flupdo.New(sqlDB, flupdo.WithDialect(dialect.SQLite))
func WithDialect(d dialect.Dialect) Option {
	return func(f *Flupdo) {
		noParens := f.dialect.NoParenthesisInConditions()
		f.dialect = d.WithNoParenthesisInConditions(d.NoParenthesisInConditions() || noParens)
	}
}

// WithNoParenthesisInConditions, WHERE ve HAVING koşullarının parantezsiz
// yazılmasını sağlar. Sphinx gibi parantezli koşul gruplarını reddeden
// motorlar için gereklidir.
func WithNoParenthesisInConditions(enabled bool) Option {
	return func(f *Flupdo) {
		f.dialect = f.dialect.WithNoParenthesisInConditions(enabled)
	}
}

// WithQuoter, string literal'lerin kaçışını üstlenen quoter'ı değiştirir.
// Verilmezse lehçenin kendi QuoteString metodu kullanılır.
func WithQuoter(q dialect.Quoter) Option {
	return func(f *Flupdo) {
		f.quoter = q
	}
}

// WithLogger, sorgu ve hata loglarının yazılacağı slog.Logger'ı belirler.
// Varsayılan logger hiçbir şey yazmaz.
//
// Örnek:
//
//	db := flupdo.New(sqlDB,
//	    flupdo.WithLogger(slog.Default()),
//	    flupdo.WithLogQuery(true),
//	)
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flupdo) {
		f.logger = logger
	}
}

// WithLogQuery açık olduğunda derlenen ve çalıştırılan her sorgu, süresiyle
// birlikte loglanır.
func WithLogQuery(enabled bool) Option {
	return func(f *Flupdo) {
		f.logQuery = enabled
	}
}

// WithLogExplain açık olduğunda her SELECT sorgusundan sonra EXPLAIN
// çalıştırılır ve sonuç tablosu debug seviyesinde loglanır.
func WithLogExplain(enabled bool) Option {
	return func(f *Flupdo) {
		f.logExplain = enabled
	}
}

// WithScanner, satırları struct'lara aktaran tarayıcıyı değiştirir.
// Varsayılan tarayıcı DefaultScanner'dır.
func WithScanner(s Scanner) Option {
	return func(f *Flupdo) {
		f.scanner = s
	}
}

// applyOptions, verilen Option'ları sırayla uygular; nil değerler atlanır.
func applyOptions(f *Flupdo, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
}
