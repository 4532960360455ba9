package dao

// Parameter narrows a List call, e.g. by lifecycle state.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a list parameter; multiple values act as a set.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
