package clause

// buffer, ya bir bayrak etiketi ya da sıralı bir grup listesi tutar.
type buffer struct {
	flag   string
	groups []Group
}

// Store, bir statement'ın clause buffer'larını buffer id'sine göre tutar.
// Sıfır değeri kullanıma hazırdır.
type Store struct {
	buffers map[string]*buffer
}

func (s *Store) get(id string) *buffer {
	if s.buffers == nil {
		s.buffers = make(map[string]*buffer)
	}
	b, ok := s.buffers[id]
	if !ok {
		b = &buffer{}
		s.buffers[id] = b
	}
	return b
}

// Add, g'yi id buffer'ının sonuna ekler.
func (s *Store) Add(id string, g Group) {
	b := s.get(id)
	b.flag = ""
	b.groups = append(b.groups, g)
}

// Replace, g'yi id buffer'ının tek grubu yapar.
func (s *Store) Replace(id string, g Group) {
	b := s.get(id)
	b.flag = ""
	b.groups = []Group{g}
}

// SetFlag, label'ı id buffer'ının tek içeriği olarak saklar.
func (s *Store) SetFlag(id, label string) {
	b := s.get(id)
	b.groups = nil
	b.flag = label
}

// AddJoin, g'yi label join anahtar kelimesiyle etiketleyip ekler.
func (s *Store) AddJoin(id, label string, g Group) {
	g.Label = label
	s.Add(id, g)
}

// Delete, id buffer'ını siler.
func (s *Store) Delete(id string) {
	delete(s.buffers, id)
}

// Has, id buffer'ının var olup olmadığını bildirir.
func (s *Store) Has(id string) bool {
	_, ok := s.buffers[id]
	return ok
}

// Flag, ayarlanmışsa id buffer'ının bayrak etiketini döndürür.
func (s *Store) Flag(id string) (string, bool) {
	b, ok := s.buffers[id]
	if !ok || b.flag == "" {
		return "", false
	}
	return b.flag, true
}

// Groups, id buffer'ının gruplarını ekleme sırasıyla döndürür.
// Dönen slice değiştirilmemelidir.
func (s *Store) Groups(id string) []Group {
	b, ok := s.buffers[id]
	if !ok {
		return nil
	}
	return b.groups
}

// Len, buffer sayısını döndürür.
func (s *Store) Len() int {
	return len(s.buffers)
}

// Clone, s'nin bir kopyasını döndürür. Gruplar paylaşılır, buffer'lar paylaşılmaz.
func (s *Store) Clone() Store {
	out := Store{buffers: make(map[string]*buffer, len(s.buffers))}
	for id, b := range s.buffers {
		out.buffers[id] = &buffer{flag: b.flag, groups: append([]Group(nil), b.groups...)}
	}
	return out
}
