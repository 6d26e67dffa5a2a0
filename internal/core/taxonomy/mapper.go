// Package taxonomy resolves upstream category, level and language strings to
// the reading app's canonical labels.
//
// Resolution is greedy and order-sensitive: an exact alias hit wins, otherwise
// the first alias (in declaration order) that contains the input or is
// contained by it. Reordering an alias table changes which label wins for
// overlapping inputs such as "social".
package taxonomy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Alias maps a lower-case key to a canonical label.
type Alias struct {
	Key       string
	Canonical string
}

// Mapper resolves raw strings against an ordered alias table.
type Mapper struct {
	aliases []Alias
	exact   map[string]string
}

// NewMapper builds a Mapper. Keys are normalized the same way inputs are; the
// first declaration of a duplicate key wins.
func NewMapper(aliases []Alias) *Mapper {
	m := &Mapper{
		aliases: make([]Alias, 0, len(aliases)),
		exact:   make(map[string]string, len(aliases)),
	}
	for _, a := range aliases {
		key := Normalize(a.Key)
		if key == "" {
			continue
		}
		if _, dup := m.exact[key]; dup {
			continue
		}
		m.exact[key] = a.Canonical
		m.aliases = append(m.aliases, Alias{Key: key, Canonical: a.Canonical})
	}
	return m
}

// Map returns the canonical label for raw, or false when nothing matches.
func (m *Mapper) Map(raw string) (string, bool) {
	in := Normalize(raw)
	if in == "" {
		return "", false
	}
	if c, ok := m.exact[in]; ok {
		return c, true
	}
	return m.substring(in)
}

func (m *Mapper) substring(in string) (string, bool) {
	for _, a := range m.aliases {
		if strings.Contains(in, a.Key) || strings.Contains(a.Key, in) {
			return a.Canonical, true
		}
	}
	return "", false
}

// Normalize lower-cases, composes (NFC) and trims s.
func Normalize(s string) string {
	// Casers carry state and must not be shared between goroutines.
	lower := cases.Lower(language.Und).String(norm.NFC.String(s))
	return strings.Join(strings.Fields(lower), " ")
}
