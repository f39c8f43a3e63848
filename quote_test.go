package flupdo

import (
	"database/sql"
	"database/sql/driver"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/biyonik/go-flupdo/dialect"
)

type status int

type label string

// state is a stringer-style enum.
type state int

const (
	stateDraft state = iota
	stateActive
)

func (s state) String() string {
	if s == stateActive {
		return "active"
	}
	return "draft"
}

type upper struct{ s string }

func (u upper) String() string { return "UP:" + u.s }

type valuer struct{ v driver.Value }

func (v valuer) Value() (driver.Value, error) { return v.v, nil }

func TestQuoteValue(t *testing.T) {
	var nilRaw *Raw
	n := 7
	active := stateActive

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"true", true, "TRUE"},
		{"false", false, "FALSE"},
		{"nil", nil, "NULL"},
		{"int", 42, "42"},
		{"negative int64", int64(-3), "-3"},
		{"uint8", uint8(255), "255"},
		{"float", 3.5, "3.500000"},
		{"float32", float32(0.25), "0.250000"},
		{"string", "O'Brien", "'O\\'Brien'"},
		{"bytes", []byte("a\nb"), "'a\\nb'"},
		{"raw", RawSQL("NOW()"), "NOW()"},
		{"raw pointer", &Raw{SQL: "CURRENT_DATE"}, "CURRENT_DATE"},
		{"nil raw pointer", nilRaw, "NULL"},
		{"time", time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), "'2024-05-06 07:08:09'"},
		{"stringer", upper{"x"}, "'UP:x'"},
		{"named int", status(2), "2"},
		{"stringer enum", stateActive, "1"},
		{"stringer enum pointer", &active, "1"},
		{"nan", math.NaN(), "NULL"},
		{"inf", math.Inf(1), "NULL"},
		{"negative inf float32", float32(math.Inf(-1)), "NULL"},
		{"named string", label("it's"), "'it\\'s'"},
		{"pointer", &n, "7"},
		{"nil pointer", (*int)(nil), "NULL"},
		{"valuer", valuer{int64(9)}, "9"},
		{"null string", sql.NullString{}, "NULL"},
		{"valid null string", sql.NullString{String: "a", Valid: true}, "'a'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestQuoteDialects(t *testing.T) {
	assert.Equal(t, "'it''s'", quoteValue(dialect.SQLite, "it's"))
	assert.Equal(t, "'x'", quoteValue(dialect.QuoterFunc(func(s string) string { return "'" + s + "'" }), "x"))

	f := New(nil, WithDialect(dialect.SQLite))
	assert.Equal(t, "'it''s'", f.Quote("it's"))

	f = New(nil, WithQuoter(dialect.QuoterFunc(func(s string) string { return "<" + s + ">" })))
	assert.Equal(t, "<a>", f.Select().Quote("a"))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "`a`.`b`", QuoteIdent("a.b"))
	assert.Equal(t, "`a``b`", QuoteIdent("a`b"))
	assert.Equal(t, []string{"`a`", "`t`.`b`"}, QuoteIdents("a", "t.b"))
	assert.Equal(t, "`users`", Select().QuoteIdent("users"))
}

func TestInterpolate(t *testing.T) {
	got := Interpolate(dialect.MySQL, "SELECT * FROM `t` WHERE `a` = ? AND `b` IN (?, ?) AND `c` = ?",
		[]any{"x'y", 1, nil})
	assert.Equal(t, "SELECT * FROM `t` WHERE `a` = 'x\\'y' AND `b` IN (1, NULL) AND `c` = ?", got)

	assert.Equal(t, "SELECT 1", Interpolate(dialect.MySQL, "SELECT 1", nil))
}

func TestInterpolateSkipsQuotedSpans(t *testing.T) {
	got := Interpolate(dialect.MySQL, "SELECT '?', \"?\", `?`, 'a\\'?', ? FROM `t` WHERE `s` = ?",
		[]any{1, stateActive})
	assert.Equal(t, "SELECT '?', \"?\", `?`, 'a\\'?', 1 FROM `t` WHERE `s` = 1", got)
}

func TestInterpolateKeepsBytes(t *testing.T) {
	query := "SELECT '\xff' AS `b` WHERE `a` = ?"
	got := Interpolate(dialect.MySQL, query, []any{2})
	assert.Equal(t, "SELECT '\xff' AS `b` WHERE `a` = 2", got)
}

func TestBindValues(t *testing.T) {
	ts := time.Unix(0, 0)
	n := 5
	active := stateActive
	got := bindValues([]any{1, "a", RawSQL("NOW()"), upper{"b"}, status(3), ts, valuer{"v"}, nil, label("l"), &n, struct{ A int }{1}, stateActive, &active, &upper{"p"}})

	assert.Equal(t, 1, got[0])
	assert.Equal(t, "a", got[1])
	assert.Equal(t, "NOW()", got[2])
	assert.Equal(t, "UP:b", got[3])
	assert.Equal(t, int64(3), got[4])
	assert.Equal(t, ts, got[5])
	assert.Equal(t, valuer{"v"}, got[6])
	assert.Nil(t, got[7])
	assert.Equal(t, "l", got[8])
	assert.Equal(t, 5, got[9])
	assert.Equal(t, "{1}", got[10])
	assert.Equal(t, int64(1), got[11])
	assert.Equal(t, int64(1), got[12])
	assert.Equal(t, "UP:p", got[13])

	assert.Nil(t, bindValues(nil))
}
