package compiler

import (
	"strings"

	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
)

// ColumnMapping maps a property name to the SQL column it is stored in.
// Unmapped names pass through unchanged.
type ColumnMapping map[string]string

func (m ColumnMapping) Column(property string) string {
	if c, ok := m[property]; ok && c != "" {
		return c
	}
	return property
}

// ColumnEntry is one member of a column set. Column is empty until mappings
// are applied.
type ColumnEntry struct {
	Property string
	Column   string
}

// ColumnSet is the ordered, duplicate-free set of properties taking part in
// an operation.
type ColumnSet struct {
	entries []ColumnEntry
	mapped  bool
}

func NewColumnSet(properties ...string) *ColumnSet {
	cs := &ColumnSet{}
	for _, p := range properties {
		cs.Add(p)
	}
	return cs
}

// Add appends property. Adding a name already present is a no-op.
func (cs *ColumnSet) Add(property string) {
	if cs.Contains(property) {
		return
	}
	cs.entries = append(cs.entries, ColumnEntry{Property: property})
	cs.mapped = false
}

// Remove drops property, failing when it is not in the set.
func (cs *ColumnSet) Remove(property string) error {
	for i, e := range cs.entries {
		if e.Property == property {
			cs.entries = append(cs.entries[:i], cs.entries[i+1:]...)
			return nil
		}
	}
	return bulkerr.Configurationf("RemoveColumn", bulkerr.ErrColumnNotFound, "%q", property)
}

func (cs *ColumnSet) Contains(property string) bool {
	for _, e := range cs.entries {
		if e.Property == property {
			return true
		}
	}
	return false
}

func (cs *ColumnSet) Len() int { return len(cs.entries) }

func (cs *ColumnSet) Properties() []string {
	out := make([]string, len(cs.entries))
	for i, e := range cs.entries {
		out[i] = e.Property
	}
	return out
}

// Entries returns the members; Column is set once mappings are applied.
func (cs *ColumnSet) Entries() []ColumnEntry {
	return cs.entries
}

// Without returns the entries whose property is not in exclude.
func (cs *ColumnSet) Without(exclude ...string) []ColumnEntry {
	out := make([]ColumnEntry, 0, len(cs.entries))
outer:
	for _, e := range cs.entries {
		for _, x := range exclude {
			if x != "" && e.Property == x {
				continue outer
			}
		}
		out = append(out, e)
	}
	return out
}

func (cs *ColumnSet) Mapped() bool { return cs.mapped }

func (cs *ColumnSet) applyMapping(m ColumnMapping) {
	if cs.mapped {
		return
	}
	for i := range cs.entries {
		cs.entries[i].Column = m.Column(cs.entries[i].Property)
	}
	cs.mapped = true
}

// Mappable is a column set or condition list that column mappings apply to.
type Mappable interface {
	applyMapping(m ColumnMapping)
}

// DoColumnMappings applies m to every target in place. Mapping always starts
// from the authored property name and each target records that it has been
// mapped, so a second call leaves targets unchanged.
func DoColumnMappings(m ColumnMapping, targets ...Mappable) {
	for _, t := range targets {
		if t != nil {
			t.applyMapping(m)
		}
	}
}

// paramBase reduces a column name to characters valid in a parameter name.
func paramBase(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
