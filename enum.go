package mirror

// Enum is a type with an ordered list of constants.
type Enum struct {
	Type
}

// Values lists the constants in ordinal order.
func (e Enum) Values() []any {
	if e.t == nil {
		return nil
	}
	return e.t.EnumConstants()
}

// Ordinal returns the position of v among the constants, or -1.
func (e Enum) Ordinal(v any) int {
	for i, c := range e.Values() {
		if c == v {
			return i
		}
	}
	return -1
}

// Next returns the constant after v, wrapping to the first one.
func (e Enum) Next(v any) (any, bool) {
	return e.step(v, 1)
}

// Previous returns the constant before v, wrapping to the last one.
func (e Enum) Previous(v any) (any, bool) {
	return e.step(v, -1)
}

func (e Enum) step(v any, by int) (any, bool) {
	values := e.Values()
	i := e.Ordinal(v)
	if i < 0 {
		return nil, false
	}
	n := len(values)
	return values[((i+by)%n+n)%n], true
}
