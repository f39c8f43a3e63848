// Package flupdo provides a composable SQL statement builder for Go.
//
// go-flupdo builds SELECT, INSERT, UPDATE, DELETE, REPLACE and raw
// statements from chained clause calls. Clause arguments are SQL fragments
// followed by the values bound to their placeholders; the SQL text is
// assembled when the statement is first used.
//
// # Quick Start
//
// Open a connection and start building statements:
//
//	db, err := flupdo.Open(ctx, &flupdo.Config{
//	    Driver:   "mysql",
//	    Host:     "localhost",
//	    Database: "shop",
//	    Username: "shop",
//	    Password: "secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
// An existing *sql.DB can be wrapped with flupdo.New(sqlDB).
//
// # Select Statements
//
//	rows, err := db.Select("`id`, `name`").
//	    From("`users`").
//	    Where("`status` = ?", "active").
//	    Where("`age` > ?", 18).
//	    OrderBy("`name`").
//	    Limit(10).
//	    FetchAll(ctx)
//
// compiles to
//
//	SELECT `id`, `name`
//	FROM `users`
//	WHERE (`status` = ?)
//		AND (`age` > ?)
//	ORDER BY `name`
//	LIMIT 10
//
// # Sub-queries
//
// A builder can be used as a fragment of another one. It is rendered in
// parentheses and its parameters are spliced in at its position:
//
//	active := db.Select("`user_id`").From("`sessions`").Where("`ttl` > ?", 0)
//	db.Select("*").From("`users`").Where([]any{"`id` IN", active})
//
// # Insert, Update, Delete
//
//	db.Insert().Into("`users`").Set("`name` = ?", "John").Exec(ctx)
//	db.Insert().Into("`users`").Columns("id", "name").Values([][]any{{1, "a"}, {2, "b"}})
//	db.Update("`users`").Set("`status` = ?", "inactive").Where("`id` = ?", 1).Exec(ctx)
//	db.Delete().From("`users`").Where("`status` = ?", "banned").Exec(ctx)
//
// # Compile Lock
//
// A compiled statement is frozen. Clause calls on it fail with
// ErrAlreadyCompiled until Uncompile is called. Calling a clause with a
// single nil argument removes it.
//
// # Transactions
//
//	err := db.Transaction(ctx, func(tx *flupdo.Tx) error {
//	    if _, err := tx.Update("`accounts`").Set("`balance` = `balance` - ?", 10).Where("`id` = ?", 1).Exec(ctx); err != nil {
//	        return err
//	    }
//	    _, err := tx.Update("`accounts`").Set("`balance` = `balance` + ?", 10).Where("`id` = ?", 2).Exec(ctx)
//	    return err
//	})
//
// # Security
//
// Fragments are emitted verbatim; only values are escaped, either by
// binding them to placeholders or, for VALUES rows, by quoting them.
// Use QuoteIdent for identifiers that come from outside the program.
//
// # Thread Safety
//
// Builders are NOT thread-safe. Create a new builder for each goroutine
// or statement. Flupdo itself may be shared.
//
// # Supported Databases
//
//   - MySQL / MariaDB
//   - Sphinx / Manticore (SphinxQL)
//   - SQLite
package flupdo
