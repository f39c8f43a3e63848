package flupdo

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/biyonik/go-flupdo/dialect"
)

func TestConfigMySQLDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "db"
	cfg.Username = "root"
	cfg.Password = "pw"
	cfg.Database = "app"
	cfg.TimeZone = "+00:00"
	cfg.TLS = true

	dsn, err := cfg.DSN()
	require.NoError(t, err)
	assert.True(t, strings.Contains(dsn, "charset=utf8mb4"), dsn)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db:3306", parsed.Addr)
	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "pw", parsed.Passwd)
	assert.Equal(t, "app", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, "'+00:00'", parsed.Params["time_zone"])
	assert.Equal(t, "true", parsed.TLSConfig)
}

func TestConfigDefaultPorts(t *testing.T) {
	cfg := &Config{Driver: "sphinx"}
	dsn, err := cfg.DSN()
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9306", parsed.Addr)

	cfg = &Config{Driver: "MySQL", Host: "::1", Port: 3307}
	dsn, err = cfg.DSN()
	require.NoError(t, err)
	parsed, err = mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "[::1]:3307", parsed.Addr)
}

func TestConfigSQLiteAndSource(t *testing.T) {
	dsn, err := (&Config{Driver: "sqlite"}).DSN()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", dsn)

	dsn, err = (&Config{Driver: "sqlite3", Database: "/tmp/a.db"}).DSN()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.db", dsn)

	dsn, err = (&Config{Driver: "mysql", Source: "u:p@/x", Host: "ignored"}).DSN()
	require.NoError(t, err)
	assert.Equal(t, "u:p@/x", dsn)

	_, err = (&Config{Driver: "oracle"}).DSN()
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestConfigDriverAndDialect(t *testing.T) {
	tests := []struct {
		driver     string
		driverName string
		dialect    dialect.Dialect
	}{
		{"mysql", "mysql", dialect.MySQL},
		{"mariadb", "mysql", dialect.MySQL},
		{"sphinx", "mysql", dialect.Sphinx},
		{" Manticore ", "mysql", dialect.Sphinx},
		{"sqlite", "sqlite", dialect.SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := &Config{Driver: tt.driver}
			assert.Equal(t, tt.driverName, cfg.DriverName())

			d, err := cfg.Dialect()
			require.NoError(t, err)
			assert.Equal(t, tt.dialect.Name(), d.Name())
			assert.Equal(t, tt.dialect.NoParenthesisInConditions(), d.NoParenthesisInConditions())
		})
	}

	_, err := (&Config{Driver: "pg"}).Dialect()
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestQueryResultNil(t *testing.T) {
	var r *QueryResult
	_, err := r.LastInsertID()
	assert.ErrorIs(t, err, ErrNoRows)
	_, err = NewQueryResult(nil).RowsAffected()
	assert.ErrorIs(t, err, ErrNoRows)
}

// TestSQLiteEndToEnd runs the builders against a real database.
func TestSQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{
		Driver:   "sqlite",
		Database: filepath.Join(t.TempDir(), "e2e.db"),
	}

	f, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f.Ping(ctx))
	assert.Equal(t, "sqlite", f.Dialect().Name())

	_, err = f.RawQuery("CREATE TABLE `users` (`id` INTEGER PRIMARY KEY AUTOINCREMENT, `name` TEXT, `age` INTEGER)").Exec(ctx)
	require.NoError(t, err)

	res, err := f.Insert().Into("`users`").Columns("name", "age").ValuesRow("alice", 30).ExecResult(ctx)
	require.NoError(t, err)
	id, err := res.LastInsertID()
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	n, err := f.Insert().Into("`users`").Columns("name", "age").
		ValuesRow("bob", 25).
		ValuesRow("o'hara", 41).
		Exec(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	err = f.Transaction(ctx, func(tx *Tx) error {
		if _, err := tx.Update("`users`").Set("`age` = `age` + ?", 1).Where("`name` = ?", "bob").Exec(ctx); err != nil {
			return err
		}
		if err := tx.Savepoint(ctx, "before_delete"); err != nil {
			return err
		}
		if _, err := tx.Delete().From("`users`").Exec(ctx); err != nil {
			return err
		}
		return tx.RollbackTo(ctx, "before_delete")
	})
	require.NoError(t, err)

	older := f.Select("`id`").From("`users`").Where("`age` > ?", 26)
	var users []user
	err = f.Select("*").
		From("`users`").
		Where([]any{"`id` IN", older}).
		OrderBy("`id`").
		Get(ctx, &users)
	require.NoError(t, err)
	assert.Equal(t, []user{{1, "alice", 30}, {3, "o'hara", 41}}, users)

	count, err := f.Select("COUNT(*)").From("`users`").FetchSingleValue(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	var bob user
	require.NoError(t, f.Select("*").From("`users`").Where("`name` = ?", "bob").First(ctx, &bob))
	assert.Equal(t, 26, bob.Age)

	byName, err := f.Select("`name`, `age`").From("`users`").FetchAllBy(ctx, "name")
	require.NoError(t, err)
	assert.EqualValues(t, 41, byName["o'hara"]["age"])

	plan, err := f.Select("*").From("`users`").Where("`id` = ?", 1).Explain(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Rows)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &Config{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
