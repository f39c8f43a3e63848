package flupdo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors for go-flupdo.
// These errors can be checked using errors.Is().
var (
	// ErrUnknownClause is returned when a clause name is not registered for the statement kind.
	ErrUnknownClause = errors.New("flupdo: unknown clause")

	// ErrAlreadyCompiled is returned when a compiled statement is modified before Uncompile.
	ErrAlreadyCompiled = errors.New("flupdo: statement is already compiled")

	// ErrUnsupportedFragment is returned when a clause buffer holds arguments the renderer cannot emit.
	ErrUnsupportedFragment = errors.New("flupdo: unsupported fragment shape")

	// ErrNoExecutor is returned when a detached statement is executed.
	ErrNoExecutor = errors.New("flupdo: statement has no executor")

	// ErrNoRows is returned when a single row or value is requested from an empty result.
	ErrNoRows = errors.New("flupdo: no rows in result set")

	// ErrUnknownColumn is returned when FetchAllBy is asked for a column the result does not have.
	ErrUnknownColumn = errors.New("flupdo: unknown column")

	// ErrTransactionClosed is returned when trying to use a committed or rolled back transaction.
	ErrTransactionClosed = errors.New("flupdo: transaction already closed")

	// ErrInvalidIdentifier is returned when a savepoint name contains invalid characters.
	ErrInvalidIdentifier = errors.New("flupdo: invalid SQL identifier")

	// ErrUnknownDriver is returned when a Config names a driver Flupdo has no dialect for.
	ErrUnknownDriver = errors.New("flupdo: unknown driver")

	// ErrNilDestination is returned when a nil pointer is passed as scan destination.
	ErrNilDestination = errors.New("flupdo: nil destination pointer")

	// ErrNotAPointer is returned when a scan destination is not a pointer.
	ErrNotAPointer = errors.New("flupdo: destination must be a pointer")

	// ErrNotASlice is returned when ScanRows is given something other than a pointer to slice.
	ErrNotASlice = errors.New("flupdo: destination must be a pointer to slice")

	// ErrNotAStruct is returned when a struct scan destination is not a struct.
	ErrNotAStruct = errors.New("flupdo: destination must be a struct")
)

// ClauseError, bir statement'ın tek bir clause buffer'ına bağlı hatayı tanımlar.
type ClauseError struct {
	Kind   Kind
	Clause string
	Buffer string
	Err    error
}

func (e *ClauseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	sb.WriteString(" (")
	sb.WriteString(e.Kind.String())
	if e.Clause != "" {
		sb.WriteString(", clause ")
		sb.WriteString(e.Clause)
	}
	if e.Buffer != "" {
		sb.WriteString(", buffer ")
		sb.WriteString(e.Buffer)
	}
	sb.WriteString(")")
	return sb.String()
}

func (e *ClauseError) Unwrap() error {
	return e.Err
}

// QueryError, sürücü hatasını ona yol açan statement ile birlikte sarar.
type QueryError struct {
	// Op is the failed operation: "exec", "query", "explain", ...
	Op     string
	SQL    string
	Params []any

	// Code and SQLState are filled in for MySQL server errors.
	Code     uint16
	SQLState string

	Err error
}

func (e *QueryError) Error() string {
	msg := "flupdo: " + e.Op + ": " + e.Err.Error()
	if e.SQL != "" {
		msg += fmt.Sprintf("\nSQL Query:\n%s", e.SQL)
	}
	if len(e.Params) > 0 {
		msg += fmt.Sprintf("Params: %v", e.Params)
	}
	return msg
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// newQueryError attaches the statement to err. A nil err yields nil.
func newQueryError(op, query string, params []any, err error) error {
	if err == nil {
		return nil
	}
	qe := &QueryError{Op: op, SQL: query, Params: params, Err: err}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		qe.Code = myErr.Number
		qe.SQLState = string(myErr.SQLState[:])
	}
	return qe
}
