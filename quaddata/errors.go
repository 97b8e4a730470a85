package quaddata

import (
	"errors"
	"fmt"

	"github.com/notargets/quadfe/element"
	"github.com/notargets/quadfe/jacobian"
)

// ElementError reports a geometric failure confined to a single element. It
// unwraps to jacobian.ErrDegenerateElement or jacobian.ErrInvertedElement.
type ElementError struct {
	Elem int // index of the element in the pass, -1 for a standalone Assemble
	Kind element.Kind
	DetJ float64
	Err  error
}

func (e *ElementError) Error() string {
	if e.Elem < 0 {
		return fmt.Sprintf("%s element: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("element %d (%s): %v", e.Elem, e.Kind, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// IsGeometric reports whether err is a per element geometric failure, as
// opposed to a configuration error that should abort the whole pass
func IsGeometric(err error) bool {
	return errors.Is(err, jacobian.ErrDegenerateElement) ||
		errors.Is(err, jacobian.ErrInvertedElement)
}

func newElementError(k element.Kind, err error) *ElementError {
	ee := &ElementError{Elem: -1, Kind: k, Err: err}
	var de *jacobian.DetError
	if errors.As(err, &de) {
		ee.DetJ = de.DetJ
	}
	return ee
}
