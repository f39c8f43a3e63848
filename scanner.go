package flupdo

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Scanner, sorgu sonuçlarını Go değerlerine kopyalar.
type Scanner interface {
	// ScanOne, ilk satırı dest struct pointer'ına tarar. Satır yoksa
	// ErrNoRows döner.
	ScanOne(rows *sql.Rows, dest any) error

	// ScanRows, tüm satırları struct ya da struct pointer slice'ına işaret
	// eden dest'e tarar.
	ScanRows(rows *sql.Rows, dest any) error
}

// defaultScanner, WithScanner verilmeden oluşturulan builder'larca paylaşılır.
var defaultScanner = NewDefaultScanner()

// DefaultScanner, kolonları `db` tag'ine göre, tag yoksa alan adının küçük
// harfli haline göre struct alanlarına eşler. "-" tag'i alanı atlar, "pk"
// seçeneği primary key'i işaretler:
//
//	type User struct {
//	    ID   int64  `db:"id,pk"`
//	    Name string `db:"name"`
//	}
//
// Struct yerleşimleri tip başına önbelleğe alınır.
type DefaultScanner struct {
	cache sync.Map // reflect.Type → *structInfo
}

// NewDefaultScanner, boş önbellekli bir DefaultScanner döndürür.
func NewDefaultScanner() *DefaultScanner {
	return &DefaultScanner{}
}

type structInfo struct {
	fields  []fieldInfo
	columns map[string]int // column name → index in fields
}

type fieldInfo struct {
	index []int
	name  string
	isPK  bool
}

// ScanOne, Scanner arayüzünü uygular.
func (s *DefaultScanner) ScanOne(rows *sql.Rows, dest any) error {
	if rows == nil {
		return ErrNoRows
	}
	defer rows.Close()

	elem, err := structPointer(dest)
	if err != nil {
		return err
	}

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("flupdo: get columns: %w", err)
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("flupdo: rows iteration: %w", err)
		}
		return ErrNoRows
	}

	info := s.getStructInfo(elem.Type())
	if err := rows.Scan(info.destinations(elem, s.columnFields(info, columns))...); err != nil {
		return fmt.Errorf("flupdo: scan row: %w", err)
	}
	return rows.Err()
}

// ScanRows, Scanner arayüzünü uygular.
func (s *DefaultScanner) ScanRows(rows *sql.Rows, dest any) error {
	if rows == nil {
		return ErrNoRows
	}
	defer rows.Close()

	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrNotAPointer
	}

	sliceVal := v.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return ErrNotASlice
	}

	elemType := sliceVal.Type().Elem()
	isPtr := elemType.Kind() == reflect.Pointer
	if isPtr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return ErrNotAStruct
	}

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("flupdo: get columns: %w", err)
	}

	info := s.getStructInfo(elemType)
	columnToField := s.columnFields(info, columns)

	for rows.Next() {
		elemVal := reflect.New(elemType).Elem()
		if err := rows.Scan(info.destinations(elemVal, columnToField)...); err != nil {
			return fmt.Errorf("flupdo: scan row: %w", err)
		}

		if isPtr {
			sliceVal.Set(reflect.Append(sliceVal, elemVal.Addr()))
		} else {
			sliceVal.Set(reflect.Append(sliceVal, elemVal))
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("flupdo: rows iteration: %w", err)
	}
	return nil
}

// ScanMaps, tüm satırları kolon → değer map'leri olarak okur. []byte
// değerler string'e çevrilir.
func ScanMaps(rows *sql.Rows) ([]map[string]any, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("flupdo: get columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("flupdo: scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("flupdo: rows iteration: %w", err)
	}
	return out, nil
}

// FieldValues, v'nin işaret ettiği struct'ın kolon adlarını ve değerlerini
// alan sırasıyla döndürür. Sıfır değerli primary key veritabanı üretsin
// diye dışarıda bırakılır.
func (s *DefaultScanner) FieldValues(v any) ([]string, []any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil, ErrNilDestination
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, nil, ErrNotAStruct
	}

	info := s.getStructInfo(rv.Type())
	names := make([]string, 0, len(info.fields))
	values := make([]any, 0, len(info.fields))
	for _, f := range info.fields {
		fv := rv.FieldByIndex(f.index)
		if f.isPK && fv.IsZero() {
			continue
		}
		names = append(names, f.name)
		values = append(values, fv.Interface())
	}
	return names, values, nil
}

// PrimaryKey, v struct'ının primary key kolonunu döndürür. pk ile
// işaretlenmiş alan yoksa "id" kullanılır.
func (s *DefaultScanner) PrimaryKey(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return ""
	}

	info := s.getStructInfo(t)
	for _, f := range info.fields {
		if f.isPK {
			return f.name
		}
	}
	if _, ok := info.columns["id"]; ok {
		return "id"
	}
	return ""
}

func structPointer(dest any) (reflect.Value, error) {
	if dest == nil {
		return reflect.Value{}, ErrNilDestination
	}
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer {
		return reflect.Value{}, ErrNotAPointer
	}
	if v.IsNil() {
		return reflect.Value{}, ErrNilDestination
	}
	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotAStruct
	}
	return elem, nil
}

// columnFields, her sonuç kolonunu bir alan indeksine eşler; eşleşmeyen
// kolonlar için -1 döner.
func (s *DefaultScanner) columnFields(info *structInfo, columns []string) []int {
	out := make([]int, len(columns))
	for i, col := range columns {
		if idx, ok := info.columns[strings.ToLower(col)]; ok {
			out[i] = idx
		} else {
			out[i] = -1
		}
	}
	return out
}

// destinations, tek bir satır için Scan hedeflerini döndürür.
func (info *structInfo) destinations(elem reflect.Value, columnToField []int) []any {
	dests := make([]any, len(columnToField))
	for i, fieldIdx := range columnToField {
		if fieldIdx == -1 {
			var ignore any
			dests[i] = &ignore
			continue
		}
		dests[i] = elem.FieldByIndex(info.fields[fieldIdx].index).Addr().Interface()
	}
	return dests
}

func (s *DefaultScanner) getStructInfo(t reflect.Type) *structInfo {
	if cached, ok := s.cache.Load(t); ok {
		return cached.(*structInfo)
	}

	info := &structInfo{
		fields:  make([]fieldInfo, 0, t.NumField()),
		columns: make(map[string]int),
	}
	s.parseStruct(t, nil, info)

	actual, _ := s.cache.LoadOrStore(t, info)
	return actual.(*structInfo)
}

func (s *DefaultScanner) parseStruct(t reflect.Type, index []int, info *structInfo) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldIndex := append(append([]int{}, index...), i)

		// Gömülü struct'ların alanları, export edilmiş olsun olmasın, eklenir.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			s.parseStruct(field.Type, fieldIndex, info)
			continue
		}
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "-" {
			continue
		}

		fi := fieldInfo{index: fieldIndex}
		if tag != "" {
			parts := strings.Split(tag, ",")
			fi.name = parts[0]
			for _, part := range parts[1:] {
				if part == "pk" {
					fi.isPK = true
				}
			}
		}
		if fi.name == "" {
			fi.name = strings.ToLower(field.Name)
		}

		info.columns[fi.name] = len(info.fields)
		info.fields = append(info.fields, fi)
	}
}
