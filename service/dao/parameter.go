package dao

const (
	// SkipParameter names the count of leading records to omit.
	SkipParameter = "Skip"
	// LimitParameter names the maximum count of records to return.
	LimitParameter = "Limit"
)

type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter returns a parameter carrying a raw string value, as read from a
// query string.
func NewParameter(name string, value string) *Parameter {
	return &Parameter{Name: name, Value: value}
}

// Skip returns a skip parameter
func Skip(n int) *Parameter {
	return &Parameter{Name: SkipParameter, Value: n}
}

// Limit returns a limit parameter
func Limit(n int) *Parameter {
	return &Parameter{Name: LimitParameter, Value: n}
}
