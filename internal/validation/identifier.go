// Package validation, Flupdo'nun kendi ürettiği SQL parçalarında kullanılan
// isimleri (savepoint adları, konfigürasyondan gelen tablo adları) doğrulamak
// için dahili yardımcı fonksiyonlar sağlar.
//
// Statement builder'lara verilen SQL parçaları doğrulanmaz; bu paket yalnızca
// Flupdo'nun SQL metnine kendisinin eklediği isimler içindir.
//
// Tüm fonksiyonlar, doğrulama başarısız olduğunda detaylı bir `IdentifierError` döndürür.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
package validation

import (
	"regexp"
)

// identifierRegex, SQL tabloları ve kolonları için geçerli identifier'ları doğrular.
// Geçerli karakterler: harfler, rakamlar, alt çizgi. İlk karakter harf veya alt çizgi olmalıdır.
// Noktalar (.) db.table ve table.column referanslarını destekler.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*){0,2}$`)

// savepointRegex, nokta içermeyen tek parçalı isimleri eşler.
var savepointRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// maxIdentifierLength, MySQL'in identifier uzunluk sınırıdır.
const maxIdentifierLength = 64

// ValidateIdentifier, verilen identifier'ın geçerli bir SQL identifier olup olmadığını kontrol eder.
// Başarılıysa nil döner, geçersizse açıklayıcı bir hata döner.
func ValidateIdentifier(id string) error {
	if err := checkLength(id); err != nil {
		return err
	}
	if !identifierRegex.MatchString(id) {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier contains invalid characters; only letters, numbers, underscores, and dots are allowed",
		}
	}
	return nil
}

// ValidateSavepoint, bir savepoint adını doğrular. Savepoint adları nokta içeremez.
func ValidateSavepoint(name string) error {
	if err := checkLength(name); err != nil {
		return err
	}
	if !savepointRegex.MatchString(name) {
		return &IdentifierError{
			Identifier: name,
			Reason:     "savepoint name may only contain letters, numbers and underscores",
		}
	}
	return nil
}

func checkLength(id string) error {
	if id == "" {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier cannot be empty",
		}
	}
	if len(id) > maxIdentifierLength {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier exceeds maximum length of 64 characters",
		}
	}
	return nil
}

// IdentifierError, identifier doğrulama hatalarını temsil eder.
type IdentifierError struct {
	Identifier string
	Reason     string
}

// Error, error arayüzünü uygular.
func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "invalid identifier: " + e.Reason
	}
	return "invalid identifier '" + e.Identifier + "': " + e.Reason
}
