package flupdo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/biyonik/go-flupdo/dialect"
)

/*
=======================================================================================================================
  Flupdo – statement builder fabrikası

  Bu dosya; `database/sql` bağlantısını (veya transaction'ı) saran Flupdo tipini içerir. Flupdo'nun kendisi SQL
  üretmez: her çağrıda yeni bir statement builder (Select, Insert, Update, Delete, Replace, RawQuery) oluşturur ve
  bu builder'a bağlantıyı, lehçeyi ve loglama ayarlarını devreder. SQL metni builder ilk kez kullanıldığında derlenir.

  @author    Ahmet ALTUN
  @github    github.com/biyonik
  @linkedin  linkedin.com/in/biyonik
  @email     ahmet.altun60@gmail.com
=======================================================================================================================
*/

// Executor, SQL çalıştıran arayüzdür. *sql.DB, *sql.Tx, *sql.Conn ve *Tx
// tarafından karşılanır.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Executor = (*sql.DB)(nil)
	_ Executor = (*sql.Tx)(nil)
	_ Executor = (*sql.Conn)(nil)
	_ Executor = (*Tx)(nil)
)

// txBeginner, transaction başlatabilen executor'ların arayüzüdür.
type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Flupdo, bir executor'a bağlı statement builder'lar üreten fabrikadır.
// Fabrikadan üretilen her builder lehçe, quoter, logger ve loglama
// bayraklarını devralır.
type Flupdo struct {
	settings
	db *sql.DB
}

// New, statement'ları exec üzerinde çalıştıran bir Flupdo döndürür. exec nil
// olabilir; bu durumda statement'lar derlenir ama çalıştırılamaz.
func New(exec Executor, opts ...Option) *Flupdo {
	f := &Flupdo{settings: settings{exec: exec, dialect: dialect.MySQL}}
	if db, ok := exec.(*sql.DB); ok {
		f.db = db
	}
	applyOptions(f, opts)
	f.settings = f.settings.normalized()
	return f
}

// Open, cfg ile tanımlanan veritabanına bağlanır ve bağlantıyı ping ile doğrular.
func Open(ctx context.Context, cfg *Config, opts ...Option) (*Flupdo, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	d, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("flupdo: open %s: %w", cfg.Driver, err)
	}
	cfg.applyPool(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("flupdo: ping %s: %w", cfg.Driver, err)
	}

	base := []Option{
		WithDialect(d),
		WithLogQuery(cfg.LogQuery),
		WithLogExplain(cfg.LogExplain),
	}
	return New(db, append(base, opts...)...), nil
}

// DB, alttaki *sql.DB'yi döndürür. Flupdo başka bir executor üzerine
// kurulduysa nil döner.
func (f *Flupdo) DB() *sql.DB {
	return f.db
}

// Executor, statement'ların çalıştığı executor'ı döndürür.
func (f *Flupdo) Executor() Executor {
	return f.exec
}

// Dialect, builder'ların derlendiği lehçeyi döndürür.
func (f *Flupdo) Dialect() dialect.Dialect {
	return f.dialect
}

// Close, varsa alttaki *sql.DB'yi kapatır.
func (f *Flupdo) Close() error {
	if f.db == nil {
		return nil
	}
	return f.db.Close()
}

// Ping, alttaki *sql.DB bağlantısını doğrular.
func (f *Flupdo) Ping(ctx context.Context) error {
	if f.db == nil {
		return ErrNoExecutor
	}
	return f.db.PingContext(ctx)
}

// Select, bir SELECT builder döndürür. Argümanlar varsa Select clause'una aktarılır.
func (f *Flupdo) Select(args ...any) *SelectBuilder { return f.settings.newSelect(args) }

// Insert, bir INSERT builder döndürür. Argümanlar varsa Insert clause'una
// (kolon listesi) aktarılır.
func (f *Flupdo) Insert(args ...any) *InsertBuilder { return f.settings.newInsert(args) }

// Update, bir UPDATE builder döndürür.
func (f *Flupdo) Update(args ...any) *UpdateBuilder { return f.settings.newUpdate(args) }

// Delete, bir DELETE builder döndürür.
func (f *Flupdo) Delete(args ...any) *DeleteBuilder { return f.settings.newDelete(args) }

// Replace, bir REPLACE builder döndürür.
func (f *Flupdo) Replace(args ...any) *ReplaceBuilder { return f.settings.newReplace(args) }

// RawQuery, elle yazılmış SQL için bir builder döndürür.
func (f *Flupdo) RawQuery(args ...any) *RawQueryBuilder { return f.settings.newRawQuery(args) }

// QuoteIdent, noktaları koruyarak bir identifier'ı quote eder: "a.b" → `a`.`b`.
func (f *Flupdo) QuoteIdent(name string) string { return f.dialect.QuoteIdent(name) }

// QuoteIdents, names içindeki her identifier'ı quote eder.
func (f *Flupdo) QuoteIdents(names ...string) []string { return f.dialect.QuoteIdents(names) }

// Quote, v'yi bir SQL literal'ine çevirir.
func (f *Flupdo) Quote(v any) string { return quoteValue(f.quoter, v) }

// BeginTx, bir transaction başlatır. Dönen Tx'ten oluşturulan builder'lar
// transaction içinde çalışır.
func (f *Flupdo) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	b, ok := f.exec.(txBeginner)
	if !ok {
		return nil, fmt.Errorf("%w: executor %T cannot begin transactions", ErrNoExecutor, f.exec)
	}
	sqlTx, err := b.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("flupdo: begin transaction: %w", err)
	}

	tx := &Tx{tx: sqlTx}
	tx.settings = f.settings
	tx.settings.exec = tx
	return tx, nil
}

// Begin, varsayılan seçeneklerle bir transaction başlatır.
func (f *Flupdo) Begin() (*Tx, error) {
	return f.BeginTx(context.Background(), nil)
}

// Transaction, fn'i bir transaction içinde çalıştırır. fn hata döndürür ya
// da panic ederse rollback, aksi halde commit yapılır.
func (f *Flupdo) Transaction(ctx context.Context, fn func(*Tx) error) error {
	tx, err := f.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("flupdo: rollback after %v: %w", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}
