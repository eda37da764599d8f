package schema

import (
	"database/sql/driver"
	"reflect"
	"time"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	valuerType     = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	tableNamerType = reflect.TypeOf((*TableNamer)(nil)).Elem()
)

// TableNamer lets an entity choose its own table name.
type TableNamer interface {
	TableName() string
}

type EntityMeta struct {
	Type     reflect.Type
	Name     string
	Table    string
	Fields   []*FieldMeta
	FieldMap map[string]*FieldMeta // Go field name -> FieldMeta
}

// FieldMeta describes one value-typed property. Column holds the tag mapping
// and defaults to the field name.
type FieldMeta struct {
	Name   string
	Column string
	Index  []int
	Type   reflect.Type
	Skip   bool
}

// Property looks up a property by its Go field name.
func (m *EntityMeta) Property(name string) (*FieldMeta, bool) {
	f, ok := m.FieldMap[name]
	return f, ok
}

// Eligible lists the properties selected by default, in declaration order.
func (m *EntityMeta) Eligible() []*FieldMeta {
	out := make([]*FieldMeta, 0, len(m.Fields))
	for _, f := range m.Fields {
		if !f.Skip {
			out = append(out, f)
		}
	}
	return out
}

// TagMappings returns property -> column for every field whose tag renames it.
func (m *EntityMeta) TagMappings() map[string]string {
	out := make(map[string]string)
	for _, f := range m.Fields {
		if f.Column != f.Name {
			out[f.Name] = f.Column
		}
	}
	return out
}

// Value reads the property from entity, a struct value or pointer to one.
// Nil pointers read as nil and non-nil pointers are dereferenced.
func (f *FieldMeta) Value(entity reflect.Value) any {
	for entity.Kind() == reflect.Ptr {
		if entity.IsNil() {
			return nil
		}
		entity = entity.Elem()
	}
	v := entity.FieldByIndex(f.Index)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		if !v.Type().Implements(valuerType) {
			v = v.Elem()
		}
	}
	return v.Interface()
}

// isEligible reports whether t maps to a single SQL value: scalars, strings,
// byte slices, time.Time, driver.Valuer implementations and pointers to those.
func isEligible(t reflect.Type) bool {
	if t.Implements(valuerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8
	case reflect.Struct:
		return t == timeType
	case reflect.Ptr:
		return t.Elem().Kind() != reflect.Ptr && isEligible(t.Elem())
	default:
		return false
	}
}
