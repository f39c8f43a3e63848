package flupdo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/biyonik/go-flupdo/internal/validation"
)

// Tx, veritabanı transaction'ını saran ve Flupdo ile aynı builder
// fabrikalarını sunan yapıdır. Tx üzerinden oluşturulan builder'lar
// transaction içinde çalışır; Commit veya Rollback sonrasında her çağrı
// ErrTransactionClosed döndürür.
type Tx struct {
	settings
	tx *sql.Tx

	mu     sync.Mutex
	closed bool
}

// Select, transaction içinde çalışan bir SELECT builder döndürür.
func (t *Tx) Select(args ...any) *SelectBuilder { return t.settings.newSelect(args) }

// Insert, transaction içinde çalışan bir INSERT builder döndürür.
func (t *Tx) Insert(args ...any) *InsertBuilder { return t.settings.newInsert(args) }

// Update, transaction içinde çalışan bir UPDATE builder döndürür.
func (t *Tx) Update(args ...any) *UpdateBuilder { return t.settings.newUpdate(args) }

// Delete, transaction içinde çalışan bir DELETE builder döndürür.
func (t *Tx) Delete(args ...any) *DeleteBuilder { return t.settings.newDelete(args) }

// Replace, transaction içinde çalışan bir REPLACE builder döndürür.
func (t *Tx) Replace(args ...any) *ReplaceBuilder { return t.settings.newReplace(args) }

// RawQuery, transaction içinde çalışan bir ham SQL builder döndürür.
func (t *Tx) RawQuery(args ...any) *RawQueryBuilder { return t.settings.newRawQuery(args) }

// QuoteIdent, bir identifier'ı transaction'ın lehçesiyle quote eder.
func (t *Tx) QuoteIdent(name string) string { return t.dialect.QuoteIdent(name) }

// Commit, transaction'ı onaylar.
func (t *Tx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTransactionClosed
	}

	t.closed = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("flupdo: commit transaction: %w", err)
	}
	return nil
}

// Rollback, transaction'ı geri alır. Kapalı bir transaction için etkisizdir.
func (t *Tx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("flupdo: rollback transaction: %w", err)
	}
	return nil
}

// IsClosed, transaction'ın commit ya da rollback edilip edilmediğini bildirir.
func (t *Tx) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Tx) checkOpen() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTransactionClosed
	}
	return nil
}

// ExecContext, Executor arayüzünü uygular.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return t.tx.ExecContext(ctx, query, args...)
}

// QueryContext, Executor arayüzünü uygular.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return t.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext, Executor arayüzünü uygular. Kapalı transaction'da dönen
// satırın Scan çağrısı sql.ErrTxDone döndürür.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

// Savepoint, name adında bir savepoint oluşturur.
func (t *Tx) Savepoint(ctx context.Context, name string) error {
	return t.savepointExec(ctx, "SAVEPOINT", name)
}

// RollbackTo, transaction'ı name savepoint'ine geri alır.
func (t *Tx) RollbackTo(ctx context.Context, name string) error {
	return t.savepointExec(ctx, "ROLLBACK TO SAVEPOINT", name)
}

// ReleaseSavepoint, name savepoint'ini kaldırır.
func (t *Tx) ReleaseSavepoint(ctx context.Context, name string) error {
	return t.savepointExec(ctx, "RELEASE SAVEPOINT", name)
}

func (t *Tx) savepointExec(ctx context.Context, verb, name string) error {
	if err := validation.ValidateSavepoint(name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIdentifier, err)
	}
	query := verb + " " + t.dialect.QuoteIdent(name)
	if _, err := t.ExecContext(ctx, query); err != nil {
		if errors.Is(err, ErrTransactionClosed) {
			return err
		}
		return newQueryError("savepoint", query, nil, err)
	}
	return nil
}

// SQLTx, alttaki *sql.Tx'i döndürür.
func (t *Tx) SQLTx() *sql.Tx {
	return t.tx
}
