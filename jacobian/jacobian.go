package jacobian

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/quadfe/element"
)

// DefaultRelTol scales the degeneracy threshold: an element is degenerate when
// |detJ| <= RelTol * h^dim, h being the bounding box diagonal of its nodes
const DefaultRelTol = 1.e-12

var (
	ErrDegenerateElement = errors.New("degenerate element")
	ErrInvertedElement   = errors.New("inverted element")
)

// Point3 is a physical space coordinate; components past the element
// dimension are carried through interpolation but do not enter the Jacobian
type Point3 [3]float64

// DetError carries the offending determinant of a degenerate or inverted map
type DetError struct {
	Reason error
	DetJ   float64
	Tol    float64
}

func (e *DetError) Error() string {
	return fmt.Sprintf("%v: detJ = %g (tolerance %g)", e.Reason, e.DetJ, e.Tol)
}

func (e *DetError) Unwrap() error { return e.Reason }

// Mapping is the reference to physical map evaluated at one reference point.
//
// Index convention: J[i][j] = dx_i/dxi_j, row i is the physical axis and column j
// the reference axis. DerShapes[a][i] = dN_a/dx_i, obtained by the chain rule
// dN_a/dxi_j = sum_i dN_a/dx_i * J[i][j], hence grad_x N_a = J^-T grad_xi N_a and
// DerShapes[a][i] = sum_j Jinv[j][i] * dN_a/dxi_j.
type Mapping struct {
	Dim       int
	J         [][]float64
	DetJ      float64
	X         Point3
	DerShapes [][]float64
}

type Mapper struct {
	RelTol float64 // zero selects DefaultRelTol
}

// Map evaluates the Jacobian of element k with the given physical nodes at a
// reference point where the basis values N and reference derivatives dN were
// taken. A degenerate map returns ErrDegenerateElement and no mapping; an
// inverted map is fully evaluated and returned together with ErrInvertedElement,
// leaving the caller to decide whether negative orientation is fatal.
func (m Mapper) Map(k element.Kind, nodes []Point3, N []float64, dN [][]float64) (mp *Mapping, err error) {
	var (
		dim, np int
		tol     float64
	)
	if dim, err = element.Dim(k); err != nil {
		return
	}
	np, _ = element.NodeCount(k)
	if len(nodes) != np || len(N) != np || len(dN) != np {
		err = fmt.Errorf("%w: %s needs %d nodes, got %d nodes, %d values, %d derivative rows",
			element.ErrDimensionMismatch, k, np, len(nodes), len(N), len(dN))
		return
	}

	mp = &Mapping{Dim: dim}
	mp.J = make([][]float64, dim)
	for i := range mp.J {
		mp.J[i] = make([]float64, dim)
	}
	for a, xa := range nodes {
		if len(dN[a]) != dim {
			err = fmt.Errorf("%w: derivative row %d has %d entries, want %d",
				element.ErrDimensionMismatch, a, len(dN[a]), dim)
			return nil, err
		}
		for i := 0; i < 3; i++ {
			mp.X[i] += N[a] * xa[i]
		}
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				mp.J[i][j] += xa[i] * dN[a][j]
			}
		}
	}
	mp.DetJ = Det(mp.J)

	tol = m.relTol() * math.Pow(CharacteristicSize(nodes, dim), float64(dim))
	if math.Abs(mp.DetJ) <= tol || math.IsNaN(mp.DetJ) || math.IsInf(mp.DetJ, 0) {
		return nil, &DetError{Reason: ErrDegenerateElement, DetJ: mp.DetJ, Tol: tol}
	}

	Jinv := Inverse(mp.J, mp.DetJ)
	mp.DerShapes = make([][]float64, np)
	for a := range dN {
		row := make([]float64, dim)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				row[i] += Jinv[j][i] * dN[a][j]
			}
		}
		mp.DerShapes[a] = row
	}
	if mp.DetJ < 0 {
		err = &DetError{Reason: ErrInvertedElement, DetJ: mp.DetJ, Tol: tol}
	}
	return
}

func (m Mapper) relTol() float64 {
	if m.RelTol > 0 {
		return m.RelTol
	}
	return DefaultRelTol
}

// CharacteristicSize is the diagonal of the bounding box of the nodes, taken over
// the first dim coordinates
func CharacteristicSize(nodes []Point3, dim int) float64 {
	if len(nodes) == 0 {
		return 0
	}
	var (
		lo, hi = nodes[0], nodes[0]
		d2     float64
	)
	for _, x := range nodes[1:] {
		for i := 0; i < dim; i++ {
			lo[i] = math.Min(lo[i], x[i])
			hi[i] = math.Max(hi[i], x[i])
		}
	}
	for i := 0; i < dim; i++ {
		d := hi[i] - lo[i]
		d2 += d * d
	}
	return math.Sqrt(d2)
}
