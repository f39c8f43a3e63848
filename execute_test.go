package flupdo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/go-flupdo/internal/testutil"
)

func newMock(t *testing.T, opts ...Option) (*Flupdo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	return New(db, opts...), mock
}

type user struct {
	ID   int64  `db:"id,pk"`
	Name string `db:"name"`
	Age  int
}

func TestExec(t *testing.T) {
	f, mock := newMock(t)
	ctx := context.Background()

	q := f.Update("`users`").Set("`name` = ?", "x").Where("`id` = ?", 1)
	query, _ := compile(t, q)
	mock.ExpectExec(query).WithArgs("x", 1).WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := q.Exec(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestExecResult(t *testing.T) {
	f, mock := newMock(t)

	q := f.Insert().Into("`users`").Set("`name` = ?", "a")
	mock.ExpectExec("\tINSERT INTO `users`\n\tSET `name` = ?\n").WithArgs("a").
		WillReturnResult(sqlmock.NewResult(42, 1))

	res, err := q.ExecResult(context.Background())
	require.NoError(t, err)

	id, err := res.LastInsertID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	rows, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
}

func TestExecDriverError(t *testing.T) {
	f, mock := newMock(t)

	q := f.Delete().From("`users`").Where("`id` = ?", 5)
	query, _ := compile(t, q)
	driverErr := &mysql.MySQLError{Number: 1451, SQLState: [5]byte{'2', '3', '0', '0', '0'}, Message: "fk"}
	mock.ExpectExec(query).WithArgs(5).WillReturnError(driverErr)

	_, err := q.Exec(context.Background())
	require.Error(t, err)

	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "exec", qe.Op)
	assert.Equal(t, query, qe.SQL)
	assert.Equal(t, []any{5}, qe.Params)
	assert.EqualValues(t, 1451, qe.Code)
	assert.Equal(t, "23000", qe.SQLState)
	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, err.Error(), "SQL Query:")
}

func TestExecWithoutExecutor(t *testing.T) {
	_, err := Select("1").Exec(context.Background())
	assert.ErrorIs(t, err, ErrNoExecutor)

	_, err = Select("1").Query(context.Background())
	assert.ErrorIs(t, err, ErrNoExecutor)
}

func TestExecCompileErrorSkipsDriver(t *testing.T) {
	f, _ := newMock(t)

	_, err := f.Insert().Into("`t`").Values("bad").Exec(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedFragment)
}

func TestFetchAll(t *testing.T) {
	f, mock := newMock(t)

	q := f.Select("`id`, `name`").From("`users`")
	query, _ := compile(t, q)
	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), []byte("alice")).
		AddRow(int64(2), "bob"))

	list, err := q.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"id": int64(1), "name": "alice"},
		{"id": int64(2), "name": "bob"},
	}, list)
}

func TestFetchAllBy(t *testing.T) {
	f, mock := newMock(t)
	ctx := context.Background()

	q := f.Select("*").From("`users`")
	query, _ := compile(t, q)
	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
		AddRow(1, "alice").
		AddRow(2, "bob"))

	byID, err := q.FetchAllBy(ctx, "id")
	require.NoError(t, err)
	require.Len(t, byID, 2)
	assert.Equal(t, "bob", byID["2"]["name"])

	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	_, err = q.FetchAllBy(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestFetchSingleRowAndValue(t *testing.T) {
	f, mock := newMock(t)
	ctx := context.Background()

	q := f.Select("COUNT(*) AS `n`").From("`users`").Where("`age` > ?", 18)
	query, _ := compile(t, q)

	mock.ExpectQuery(query).WithArgs(18).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(3)))
	row, err := q.FetchSingleRow(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": int64(3)}, row)

	mock.ExpectQuery(query).WithArgs(18).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow([]byte("3")))
	v, err := q.FetchSingleValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	mock.ExpectQuery(query).WithArgs(18).WillReturnRows(sqlmock.NewRows([]string{"n"}))
	_, err = q.FetchSingleRow(ctx)
	assert.ErrorIs(t, err, ErrNoRows)

	mock.ExpectQuery(query).WithArgs(18).WillReturnRows(sqlmock.NewRows([]string{"n"}))
	_, err = q.FetchSingleValue(ctx)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestQueryDriverError(t *testing.T) {
	f, mock := newMock(t)

	q := f.Select("*").From("`missing`")
	query, _ := compile(t, q)
	mock.ExpectQuery(query).WillReturnError(errors.New("no such table"))

	_, err := q.FetchAll(context.Background())
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "query", qe.Op)
}

func TestGetAndFirst(t *testing.T) {
	f, mock := newMock(t)
	ctx := context.Background()

	q := f.Select("*").From("`users`")
	query, _ := compile(t, q)

	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "extra"}).
		AddRow(1, "alice", 30, "ignored").
		AddRow(2, "bob", 25, "ignored"))

	var users []user
	require.NoError(t, q.Get(ctx, &users))
	assert.Equal(t, []user{{1, "alice", 30}, {2, "bob", 25}}, users)

	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"ID", "Name"}).AddRow(7, "carol"))
	var u user
	require.NoError(t, q.First(ctx, &u))
	assert.Equal(t, user{ID: 7, Name: "carol"}, u)

	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	assert.ErrorIs(t, q.First(ctx, &u), ErrNoRows)
}

func TestLogQuery(t *testing.T) {
	logger, buf := testutil.NewCapturingLogger()
	f, mock := newMock(t, WithLogger(logger), WithLogQuery(true))

	q := f.Delete().From("`t`").Where("`id` = ?", 1)
	query, _ := compile(t, q)
	mock.ExpectExec(query).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := q.Exec(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=\"sql query\"")
	assert.Contains(t, out, "phase=compile")
	assert.Contains(t, out, "phase=exec")
	assert.Contains(t, out, "sql query time")
}

func TestLogExplain(t *testing.T) {
	logger, buf := testutil.NewCapturingLogger()
	f, mock := newMock(t, WithLogger(logger), WithLogExplain(true))

	q := f.Select("*").From("`users`").Where("`name` = ?", "o'k")
	query, _ := compile(t, q)

	mock.ExpectQuery("EXPLAIN " + Interpolate(f.quoter, query, []any{"o'k"})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "select_type", "table"}).AddRow(1, "SIMPLE", "users"))
	mock.ExpectQuery(query).WithArgs("o'k").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	list, err := q.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	out := buf.String()
	assert.Contains(t, out, "sql explain")
	assert.Contains(t, out, "SIMPLE")
}

func TestLogExplainFailureIsNotFatal(t *testing.T) {
	logger, buf := testutil.NewCapturingLogger()
	f, mock := newMock(t, WithLogger(logger), WithLogExplain(true))

	q := f.Select("1")
	query, _ := compile(t, q)
	mock.ExpectQuery("EXPLAIN " + query).WillReturnError(errors.New("not supported"))
	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	_, err := q.FetchSingleValue(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sql explain failed")
}

func TestExplain(t *testing.T) {
	f, mock := newMock(t)

	q := f.Select("*").From("`users`").Where("`id` = ?", 3)
	query, _ := compile(t, q)
	mock.ExpectQuery("EXPLAIN " + Interpolate(f.quoter, query, []any{3})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type"}).AddRow(1, "const"))

	res, err := q.Explain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "type"}, res.Columns)
	assert.Contains(t, res.Query, "`id` = 3")
	assert.Contains(t, res.String(), "const")
	assert.Contains(t, res.String(), "(1 rows)")
	assert.True(t, q.Compiled())
}

func TestDebugDump(t *testing.T) {
	logger, buf := testutil.NewCapturingLogger()
	f := New(nil, WithLogger(logger))

	f.Select("*").From("`t`").Where("`a` = ?", "v").DebugDump()
	assert.Contains(t, buf.String(), "`a` = 'v'")

	f.Insert().Values(1).DebugDump()
	assert.Contains(t, buf.String(), "cannot render statement")
}

func TestWriteTable(t *testing.T) {
	var sb strings.Builder
	WriteTable(&sb, []string{"a"}, nil)
	assert.Equal(t, "(0 rows)\n", sb.String())

	sb.Reset()
	WriteTable(&sb, []string{"b", "a"}, []map[string]any{{"a": 1, "b": nil}})
	out := sb.String()
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(1 rows)")
	assert.Less(t, strings.Index(out, "B"), strings.Index(out, "A"))
}

func TestScannerErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewDefaultScanner()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	rows, err := db.Query("SELECT")
	require.NoError(t, err)
	var notPtr []user
	assert.ErrorIs(t, s.ScanRows(rows, notPtr), ErrNotAPointer)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	rows, err = db.Query("SELECT")
	require.NoError(t, err)
	var ints []int
	assert.ErrorIs(t, s.ScanRows(rows, &ints), ErrNotAStruct)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	rows, err = db.Query("SELECT")
	require.NoError(t, err)
	var m map[string]any
	assert.ErrorIs(t, s.ScanRows(rows, &m), ErrNotASlice)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	rows, err = db.Query("SELECT")
	require.NoError(t, err)
	assert.ErrorIs(t, s.ScanOne(rows, nil), ErrNilDestination)

	assert.ErrorIs(t, s.ScanOne(nil, &user{}), ErrNoRows)
}

func TestScanRowsIntoPointers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	type base struct {
		ID int64 `db:"id"`
	}
	type item struct {
		base
		Title string `db:"title"`
	}

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(1, "a").AddRow(2, "b"))
	rows, err := db.Query("SELECT")
	require.NoError(t, err)

	var items []*item
	require.NoError(t, NewDefaultScanner().ScanRows(rows, &items))
	require.Len(t, items, 2)
	assert.EqualValues(t, 2, items[1].ID)
	assert.Equal(t, "b", items[1].Title)
}

func TestPrimaryKey(t *testing.T) {
	s := NewDefaultScanner()
	assert.Equal(t, "id", s.PrimaryKey(&user{}))

	type noTag struct {
		ID   int
		Name string
	}
	assert.Equal(t, "id", s.PrimaryKey(noTag{}))

	type code struct {
		Code string `db:"code,pk"`
	}
	assert.Equal(t, "code", s.PrimaryKey(code{}))
	assert.Equal(t, "", s.PrimaryKey(42))
}

func TestCustomScanner(t *testing.T) {
	f, mock := newMock(t, WithScanner(countingScanner{NewDefaultScanner(), new(int)}))

	q := f.Select("*").From("`users`")
	query, _ := compile(t, q)
	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	var users []user
	require.NoError(t, q.Get(context.Background(), &users))
	assert.Equal(t, 1, *f.scanner.(countingScanner).calls)
}

type countingScanner struct {
	*DefaultScanner
	calls *int
}

func (c countingScanner) ScanRows(rows *sql.Rows, dest any) error {
	*c.calls++
	return c.DefaultScanner.ScanRows(rows, dest)
}
