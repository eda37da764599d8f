package compiler

import (
	"reflect"
	"strconv"

	"github.com/Konsultn-Engineering/sqlbulk/ast"
	"github.com/Konsultn-Engineering/sqlbulk/batch"
	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/schema"
)

// ParamName is the parameter bound to column for row n.
func ParamName(column string, n int) string {
	return indexedName(paramBase(column), n)
}

// indexedName appends n to base. A base already ending in a digit or an
// underscore gets a "_" first, so Address1 row 0 and Address row 10 stay
// apart as Address1_0 and Address10.
func indexedName(base string, n int) string {
	if last := len(base) - 1; last >= 0 {
		if c := base[last]; c == '_' || (c >= '0' && c <= '9') {
			base += "_"
		}
	}
	return base + strconv.Itoa(n)
}

func columnOf(e ColumnEntry) string {
	if e.Column != "" {
		return e.Column
	}
	return e.Property
}

// AddQueryParams binds one parameter per entry for row n, reading values off
// entity, and returns them in column order for a VALUES tuple.
func AddQueryParams(params *batch.ParamSet, entries []ColumnEntry, meta *schema.EntityMeta, entity reflect.Value, n int) ([]*ast.Param, error) {
	out := make([]*ast.Param, 0, len(entries))
	for _, e := range entries {
		p, err := bindProperty(params, meta, entity, e.Property, columnOf(e), n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// AddUpdateQueryParams binds one parameter per entry for row n and returns
// the column = parameter assignments of a SET clause.
func AddUpdateQueryParams(params *batch.ParamSet, entries []ColumnEntry, meta *schema.EntityMeta, entity reflect.Value, n int) ([]ast.Assignment, error) {
	out := make([]ast.Assignment, 0, len(entries))
	for _, e := range entries {
		p, err := bindProperty(params, meta, entity, e.Property, columnOf(e), n)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.Assignment{Column: ast.NewColumn(columnOf(e)), Value: p})
	}
	return out, nil
}

func bindProperty(params *batch.ParamSet, meta *schema.EntityMeta, entity reflect.Value, property, column string, n int) (*ast.Param, error) {
	field, ok := meta.Property(property)
	if !ok {
		return nil, bulkerr.Configurationf("Compile", bulkerr.ErrUnknownProperty, "%s has no property %q", meta.Name, property)
	}
	name := ParamName(column, n)
	if err := params.Add(name, field.Value(entity)); err != nil {
		return nil, err
	}
	return ast.NewParam(name), nil
}

func columnList(entries []ColumnEntry) []*ast.Column {
	cols := make([]*ast.Column, 0, len(entries))
	for _, e := range entries {
		cols = append(cols, ast.NewColumn(columnOf(e)))
	}
	return cols
}
