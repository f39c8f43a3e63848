package flupdo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionCommit(t *testing.T) {
	f, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("\tUPDATE `accounts`\n\tSET `balance` = `balance` - ?\n\tWHERE (`id` = ?)\n").
		WithArgs(10, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := f.Transaction(ctx, func(tx *Tx) error {
		_, err := tx.Update("`accounts`").Set("`balance` = `balance` - ?", 10).Where("`id` = ?", 1).Exec(ctx)
		return err
	})
	require.NoError(t, err)
}

func TestTransactionRollbackOnError(t *testing.T) {
	f, mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := f.Transaction(context.Background(), func(*Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestTransactionRollbackOnPanic(t *testing.T) {
	f, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = f.Transaction(context.Background(), func(*Tx) error { panic("kaboom") })
	})
}

func TestTxClosed(t *testing.T) {
	f, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := f.Begin()
	require.NoError(t, err)
	assert.False(t, tx.IsClosed())
	require.NoError(t, tx.Commit())
	assert.True(t, tx.IsClosed())

	assert.ErrorIs(t, tx.Commit(), ErrTransactionClosed)
	assert.NoError(t, tx.Rollback())

	_, err = tx.Delete().From("`t`").Exec(ctx)
	assert.ErrorIs(t, err, ErrTransactionClosed)

	_, err = tx.Select("1").Query(ctx)
	assert.ErrorIs(t, err, ErrTransactionClosed)

	assert.ErrorIs(t, tx.Savepoint(ctx, "sp"), ErrTransactionClosed)
}

func TestSavepoints(t *testing.T) {
	f, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT `sp1`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT `sp1`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT `sp1`").WillReturnError(errors.New("gone"))
	mock.ExpectRollback()

	tx, err := f.BeginTx(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, tx.Savepoint(ctx, "sp1"))
	require.NoError(t, tx.RollbackTo(ctx, "sp1"))

	err = tx.ReleaseSavepoint(ctx, "sp1")
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "savepoint", qe.Op)
	assert.Equal(t, "RELEASE SAVEPOINT `sp1`", qe.SQL)

	assert.ErrorIs(t, tx.Savepoint(ctx, "sp; DROP TABLE x"), ErrInvalidIdentifier)
	assert.ErrorIs(t, tx.Savepoint(ctx, ""), ErrInvalidIdentifier)

	require.NoError(t, tx.Rollback())
}

func TestTxInheritsSettings(t *testing.T) {
	f, mock := newMock(t, WithNoParenthesisInConditions(true))

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := f.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	query, _ := compile(t, tx.Select("`a`").From("`t`").Where("`a` = 1"))
	assert.Equal(t, "\tSELECT `a`\n\tFROM `t`\n\tWHERE `a` = 1\n", query)
	assert.Equal(t, "`x`", tx.QuoteIdent("x"))
}

func TestBeginWithoutDB(t *testing.T) {
	f := New(nil)
	_, err := f.Begin()
	assert.ErrorIs(t, err, ErrNoExecutor)
}
