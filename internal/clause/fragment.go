package clause

// Kind, bir Fragment'ın içeriğini etiketler.
type Kind uint8

const (
	// Literal, olduğu gibi yazılan SQL metnidir.
	Literal Kind = iota

	// Value, değer quote kurallarıyla yazılan skalerdir.
	Value

	// Sub, yerinde derlenen iç içe statement'tır.
	Sub
)

// Subquery, başka bir statement'ın içinde derlenebilen statement'tır.
// CompileNested, alıcının derlenmiş durumunu değiştirmemelidir.
type Subquery interface {
	CompileNested(indent, subIndent string) (string, []any, error)
}

// Fragment, bir clause grubunun tek parçasıdır.
type Fragment struct {
	Kind  Kind
	Text  string
	Value any
	Sub   Subquery
}

// Group, tek bir clause çağrısının yüküdür: yazılacak parçalar ve ardından
// placeholder'lara bağlanan parametreler.
type Group struct {
	Fragments []Fragment
	Params    []any

	// Args, çağrı argümanlarını verildiği gibi tutar. Argümanın tamamını
	// kullanan derleyiciler (VALUES satırları, yorumlar) buradan okur.
	Args []any

	// Label, AddJoin ile saklanan grupların join anahtar kelimesidir.
	Label string
}

// LiteralFunc, v'nin olduğu gibi yazılıp yazılmayacağını bildirir ve metnini döndürür.
type LiteralFunc func(v any) (string, bool)

// NewGroup, clause çağrısı argümanlarından bir grup kurar. İlk argüman SQL
// parçasıdır: literal metin, iç içe statement ya da bunların boşlukla
// birleştirilen bir []any listesi. Kalan argümanlar bind edilen parametrelerdir.
func NewGroup(args []any, literal LiteralFunc) Group {
	g := Group{Args: args}
	if len(args) == 0 {
		return g
	}

	if list, ok := args[0].([]any); ok {
		g.Fragments = make([]Fragment, 0, len(list))
		for _, v := range list {
			g.Fragments = append(g.Fragments, newFragment(v, literal))
		}
	} else {
		g.Fragments = []Fragment{newFragment(args[0], literal)}
	}

	if len(args) > 1 {
		g.Params = append([]any(nil), args[1:]...)
	}
	return g
}

func newFragment(v any, literal LiteralFunc) Fragment {
	if sub, ok := v.(Subquery); ok {
		return Fragment{Kind: Sub, Sub: sub}
	}
	if literal != nil {
		if text, ok := literal(v); ok {
			return Fragment{Kind: Literal, Text: text}
		}
	}
	return Fragment{Kind: Value, Value: v}
}
