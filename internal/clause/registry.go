// Package clause, statement builder'ların clause çağrılarını saklamak için kullandığı
// registry ve buffer modelini içerir. Her statement türü (SELECT, INSERT, ...) sabit
// bir Registry tablosuna sahiptir; tablo, clause adını bir buffer aksiyonuna eşler.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
package clause

import "fmt"

// Action, bir clause çağrısının buffer üzerinde yaptığı değişikliktir.
type Action uint8

const (
	// Add, çağrının grubunu buffer'ın sonuna ekler.
	Add Action = iota + 1

	// Replace, buffer'ı çağrının grubuyla değiştirir.
	Replace

	// SetFlag, kayıt etiketini buffer'ın tek içeriği olarak saklar.
	SetFlag

	// AddJoin, çağrının grubunu kayıt etiketiyle işaretleyip ekler.
	AddJoin
)

func (a Action) String() string {
	switch a {
	case Add:
		return "add"
	case Replace:
		return "replace"
	case SetFlag:
		return "setFlag"
	case AddJoin:
		return "addJoin"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// Registration, bir clause adını aksiyonuna ve hedef buffer'ına bağlar.
// Label, SetFlag için bayrak metni, AddJoin için join anahtar kelimesidir.
type Registration struct {
	Action Action
	Buffer string
	Label  string
}

// Registry, clause adlarını kayıtlara eşler. Her statement türü için bir kez
// kurulur ve sonrasında değiştirilmez.
type Registry map[string]Registration

// Lookup, name için kaydı döndürür.
func (r Registry) Lookup(name string) (Registration, bool) {
	reg, ok := r[name]
	return reg, ok
}

// Merge, r'nin kayıtları üzerine others'ın kayıtlarını yazan yeni bir
// registry döndürür; sonraki registry kazanır.
func (r Registry) Merge(others ...Registry) Registry {
	out := make(Registry, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Apply, kayıtlı aksiyonu store üzerinde uygular.
func (reg Registration) Apply(store *Store, g Group) {
	switch reg.Action {
	case Add:
		store.Add(reg.Buffer, g)
	case Replace:
		store.Replace(reg.Buffer, g)
	case SetFlag:
		store.SetFlag(reg.Buffer, reg.Label)
	case AddJoin:
		store.AddJoin(reg.Buffer, reg.Label, g)
	}
}
