package criteria

import (
	"fmt"

	"github.com/viant/posts/service/dao"
	"github.com/viant/toolbox"
)

// Window is a positional skip/limit range over an ordered collection.
// Bounded is false when no limit was supplied.
type Window struct {
	Skip    int
	Limit   int
	Bounded bool
}

// WindowOf reads Skip and Limit parameters; unknown parameters are ignored.
// Values may be any integer kind or a numeric string.
func WindowOf(parameters ...*dao.Parameter) (*Window, error) {
	ret := &Window{}
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		switch parameter.Name {
		case dao.SkipParameter:
			skip, err := toolbox.ToInt(parameter.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: skip %v", dao.ErrInvalidWindow, parameter.Value)
			}
			ret.Skip = skip
		case dao.LimitParameter:
			limit, err := toolbox.ToInt(parameter.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: limit %v", dao.ErrInvalidWindow, parameter.Value)
			}
			ret.Limit = limit
			ret.Bounded = true
		}
	}
	return ret, nil
}

// Validate rejects negative skip or limit.
func (w *Window) Validate() error {
	if w.Skip < 0 {
		return fmt.Errorf("%w: skip must be >= 0, got %d", dao.ErrInvalidWindow, w.Skip)
	}
	if w.Bounded && w.Limit < 0 {
		return fmt.Errorf("%w: limit must be >= 0, got %d", dao.ErrInvalidWindow, w.Limit)
	}
	return nil
}

// Bounds returns the half-open index range [from, to) the window selects from
// a collection of size n. Negative skip and limit count as zero.
func (w *Window) Bounds(n int) (from, to int) {
	from = min(max(w.Skip, 0), n)
	if !w.Bounded {
		return from, n
	}
	limit := max(w.Limit, 0)
	if limit > n-from {
		return from, n
	}
	return from, from + limit
}
