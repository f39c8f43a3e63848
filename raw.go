package flupdo

// Raw, olduğu gibi yazılan SQL metnini işaretler; hem clause parçası hem de
// Quote'a verilen değer olarak. Güvenliği çağıranın sorumluluğundadır.
type Raw struct {
	SQL string
}

// RawSQL, sql'i saran bir Raw döndürür.
func RawSQL(sql string) Raw {
	return Raw{SQL: sql}
}

// String, ham SQL metnini döndürür.
func (r Raw) String() string {
	return r.SQL
}

// literalText, v'nin quote edilmek yerine SQL metni olarak yazılıp yazılmayacağını bildirir.
func literalText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case Raw:
		return x.SQL, true
	case *Raw:
		if x == nil {
			return "", false
		}
		return x.SQL, true
	default:
		return "", false
	}
}
