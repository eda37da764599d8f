package batch

import (
	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
)

type Param struct {
	Name  string
	Value any
}

// ParamSet is the ordered parameter list shared by every statement of a
// batch. Names are unique across the whole batch.
type ParamSet struct {
	order  []string
	values map[string]any
}

func NewParamSet() *ParamSet {
	return &ParamSet{values: make(map[string]any)}
}

// Add registers a parameter. A name already present is a configuration error.
func (p *ParamSet) Add(name string, value any) error {
	if _, ok := p.values[name]; ok {
		return bulkerr.Configurationf("AddParam", bulkerr.ErrDuplicateParameter, "%q", name)
	}
	p.values[name] = value
	p.order = append(p.order, name)
	return nil
}

func (p *ParamSet) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

func (p *ParamSet) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

func (p *ParamSet) Len() int { return len(p.order) }

func (p *ParamSet) All() []Param {
	out := make([]Param, len(p.order))
	for i, name := range p.order {
		out[i] = Param{Name: name, Value: p.values[name]}
	}
	return out
}
