package validation

import "strings"

// allowedOperators, tek değerli filtrelerde kabul edilen karşılaştırma
// operatörleridir. IN ve BETWEEN birden fazla değer aldığı için burada yoktur.
var allowedOperators = map[string]bool{
	"=":  true,
	"!=": true,
	"<>": true,
	"<":  true,
	">":  true,
	"<=": true,
	">=": true,

	"LIKE":     true,
	"NOT LIKE": true,

	"IS":     true,
	"IS NOT": true,

	"<=>": true, // MySQL NULL güvenli eşitliği
}

// NormalizeOperator, operatörü büyük harfe çevirir ve ara boşlukları teke indirir.
// Listede olmayan operatörler için *OperatorError döner.
func NormalizeOperator(op string) (string, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(op), " "))

	if !allowedOperators[normalized] {
		return "", &OperatorError{
			Operator: op,
			Reason:   "operator not in allowed list",
		}
	}

	return normalized, nil
}

// IsNullOperator, operatörün NULL kontrolü (IS / IS NOT) olup olmadığını döndürür.
func IsNullOperator(op string) bool {
	normalized := strings.ToUpper(strings.Join(strings.Fields(op), " "))
	return normalized == "IS" || normalized == "IS NOT"
}

// OperatorError, operatör doğrulama hatasını temsil eder.
type OperatorError struct {
	Operator string
	Reason   string
}

func (e *OperatorError) Error() string {
	return "flupdo: invalid operator '" + e.Operator + "': " + e.Reason
}
