package schema

import (
	"fmt"
	"reflect"
)

// PropertyOf resolves a member selector to the Go field name it addresses.
// The selector must return a pointer to a field of its argument:
//
//	name, err := schema.PropertyOf(func(p *Person) any { return &p.Name })
func PropertyOf[T any](selector func(*T) any) (string, error) {
	var zero T
	root := reflect.ValueOf(&zero).Elem()
	if root.Kind() != reflect.Struct {
		return "", fmt.Errorf("schema: selector target %T is not a struct", zero)
	}

	target := reflect.ValueOf(selector(&zero))
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return "", fmt.Errorf("schema: selector must return a pointer to a field")
	}

	if name, ok := findField(root, target.Pointer(), target.Type().Elem()); ok {
		return name, nil
	}
	return "", fmt.Errorf("schema: selector does not address a field of %s", root.Type())
}

func findField(structVal reflect.Value, addr uintptr, typ reflect.Type) (string, bool) {
	structType := structVal.Type()
	for i := 0; i < structVal.NumField(); i++ {
		field := structVal.Field(i)
		sf := structType.Field(i)
		// an embedded struct shares its first field's address
		if sf.Anonymous && field.Kind() == reflect.Struct && sf.Type != typ {
			if name, ok := findField(field, addr, typ); ok {
				return name, true
			}
			continue
		}
		if field.CanAddr() && field.Addr().Pointer() == addr && sf.Type == typ {
			return sf.Name, true
		}
	}
	return "", false
}
