package quadrature

import (
	"errors"
	"fmt"

	"github.com/notargets/quadfe/element"
)

var ErrUnsupportedOrder = errors.New("unsupported quadrature order")

// Rule is an ordered set of reference points and weights for one element kind.
// Rules handed out by a Cache are shared and must be treated as read only.
type Rule struct {
	Kind    element.Kind
	Dim     int
	Order   int // requested exactness
	Degree  int // exactness of the rule actually selected, >= Order
	Points  [][]float64
	Weights []float64
}

func (r *Rule) Len() int { return len(r.Weights) }

// Sum of the weights, equal to the reference measure of the element
func (r *Rule) Sum() (s float64) {
	for _, w := range r.Weights {
		s += w
	}
	return
}

// Integrate applies the rule to f over the reference domain
func (r *Rule) Integrate(f func(xi []float64) float64) (s float64) {
	for i, pt := range r.Points {
		s += r.Weights[i] * f(pt)
	}
	return
}

// MaxDegree is the highest exactness degree available for k
func MaxDegree(k element.Kind) (int, error) {
	if _, err := element.Dim(k); err != nil {
		return 0, err
	}
	switch k {
	case element.Triangle:
		return triangleRules[len(triangleRules)-1].degree, nil
	case element.Tetrahedron:
		return tetrahedronRules[len(tetrahedronRules)-1].degree, nil
	default:
		return 2*MaxGaussPoints - 1, nil
	}
}

// TabulatedDegrees lists the exactness degrees of the rules available for k
func TabulatedDegrees(k element.Kind) (degrees []int, err error) {
	if _, err = element.Dim(k); err != nil {
		return
	}
	switch k {
	case element.Triangle:
		for _, sr := range triangleRules {
			degrees = append(degrees, sr.degree)
		}
	case element.Tetrahedron:
		for _, sr := range tetrahedronRules {
			degrees = append(degrees, sr.degree)
		}
	default:
		for n := 1; n <= MaxGaussPoints; n++ {
			degrees = append(degrees, 2*n-1)
		}
	}
	return
}

func validate(k element.Kind, order int) error {
	maxDeg, err := MaxDegree(k)
	if err != nil {
		return err
	}
	if order < 0 || order > maxDeg {
		return fmt.Errorf("%w: %s order %d, tabulated up to %d", ErrUnsupportedOrder, k, order, maxDeg)
	}
	return nil
}

// newRule builds the rule for an already validated (k, order)
func newRule(k element.Kind, order int) (r *Rule) {
	var (
		dim, _     = element.Dim(k)
		measure, _ = element.Measure(k)
	)
	r = &Rule{Kind: k, Dim: dim, Order: order}
	switch k {
	case element.Triangle, element.Tetrahedron:
		table := triangleRules
		if k == element.Tetrahedron {
			table = tetrahedronRules
		}
		for _, sr := range table {
			if sr.degree >= order {
				r.Degree = sr.degree
				r.Points, r.Weights = sr.expand(dim, measure)
				return
			}
		}
		panic(fmt.Sprintf("no %s rule for validated order %d", k, order))
	default:
		n := gaussPointsForOrder(order)
		X, W := GaussLegendre(n)
		r.Degree = 2*n - 1
		r.Points, r.Weights = tensorRule(dim, X, W)
	}
	return
}
