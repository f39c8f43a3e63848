package flupdo

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Exec, statement'ı derleyip çalıştırır ve etkilenen satır sayısını döndürür.
func (s *Statement) Exec(ctx context.Context) (int64, error) {
	res, err := s.ExecResult(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, newQueryError("exec", s.sql, s.params, err)
	}
	return n, nil
}

// ExecResult, statement'ı derleyip çalıştırır ve sonucu döndürür.
func (s *Statement) ExecResult(ctx context.Context) (*QueryResult, error) {
	query, params, err := s.prepare()
	if err != nil {
		return nil, err
	}
	s.logPhase("exec", query, params)

	start := time.Now()
	res, err := s.exec.ExecContext(ctx, query, bindValues(params)...)
	if err != nil {
		return nil, newQueryError("exec", query, params, err)
	}
	if s.logQuery {
		s.logger.Info("sql query time", slog.String("phase", "exec"), slog.Duration("duration", time.Since(start)))
	}
	return NewQueryResult(res), nil
}

// Query, statement'ı derleyip çalıştırır ve satırları döndürür. Satırları
// kapatmak çağıranın sorumluluğundadır.
func (s *Statement) Query(ctx context.Context) (*sql.Rows, error) {
	query, params, err := s.prepare()
	if err != nil {
		return nil, err
	}
	s.logPhase("query", query, params)
	if s.logExplain && s.kind == KindSelect {
		s.explain(ctx, query, params)
	}

	start := time.Now()
	rows, err := s.exec.QueryContext(ctx, query, bindValues(params)...)
	if err != nil {
		return nil, newQueryError("query", query, params, err)
	}
	if s.logQuery {
		s.logger.Info("sql query time", slog.String("phase", "query"), slog.Duration("duration", time.Since(start)))
	}
	return rows, nil
}

// FetchAll, tüm sonuç satırlarını kolon → değer map'leri olarak döndürür.
func (s *Statement) FetchAll(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.Query(ctx)
	if err != nil {
		return nil, err
	}
	list, err := ScanMaps(rows)
	if err != nil {
		return nil, newQueryError("fetch", s.sql, s.params, err)
	}
	return list, nil
}

// FetchAllBy, tüm satırları keyColumn kolonunun metin değerine göre
// indeksler. Aynı anahtara sahip sonraki satır öncekinin yerini alır.
func (s *Statement) FetchAllBy(ctx context.Context, keyColumn string) (map[string]map[string]any, error) {
	list, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]any, len(list))
	for _, row := range list {
		key, ok := row[keyColumn]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, keyColumn)
		}
		out[fmt.Sprint(key)] = row
	}
	return out, nil
}

// FetchSingleRow, ilk sonuç satırını döndürür. Sonuç boşsa ErrNoRows döner.
func (s *Statement) FetchSingleRow(ctx context.Context) (map[string]any, error) {
	list, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoRows
	}
	return list[0], nil
}

// FetchSingleValue, ilk satırın ilk kolonunu döndürür. Sonuç boşsa
// ErrNoRows döner.
func (s *Statement) FetchSingleValue(ctx context.Context) (any, error) {
	rows, err := s.Query(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, newQueryError("fetch", s.sql, s.params, err)
		}
		return nil, ErrNoRows
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, newQueryError("fetch", s.sql, s.params, err)
	}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, newQueryError("fetch", s.sql, s.params, err)
	}
	if b, ok := values[0].([]byte); ok {
		return string(b), nil
	}
	return values[0], nil
}

// Get, tüm satırları dest'e tarar. dest, struct slice'ına işaret eden bir pointer olmalıdır.
func (s *Statement) Get(ctx context.Context, dest any) error {
	rows, err := s.Query(ctx)
	if err != nil {
		return err
	}
	return s.scanner.ScanRows(rows, dest)
}

// First, ilk satırı dest struct pointer'ına tarar.
func (s *Statement) First(ctx context.Context, dest any) error {
	rows, err := s.Query(ctx)
	if err != nil {
		return err
	}
	return s.scanner.ScanOne(rows, dest)
}

// DebugDump, statement'ı parametreleri yerleştirilmiş halde loglar.
func (s *Statement) DebugDump() {
	query, params, err := s.Compile()
	if err != nil {
		s.logger.Error("flupdo: cannot render statement", slog.String("kind", s.kind.String()), slog.Any("error", err))
		return
	}
	s.logger.Debug("sql debug dump", slog.String("kind", s.kind.String()),
		slog.String("sql", Interpolate(s.quoter, query, params)))
}

// prepare, statement'ı derler ve çalıştırılabilir olduğunu kontrol eder.
func (s *Statement) prepare() (string, []any, error) {
	if s.exec == nil {
		return "", nil, ErrNoExecutor
	}
	return s.Compile()
}

func (s *Statement) logPhase(phase, query string, params []any) {
	if !s.logQuery {
		return
	}
	s.logger.Info("sql query", slog.String("phase", phase), slog.String("sql", query), slog.Any("params", params))
}
