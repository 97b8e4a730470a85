package element

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one of the low order Lagrange elements in the catalog. The set
// is closed, every per-kind property is looked up in the catalog table below.
type Kind uint8

const (
	Line Kind = iota
	Triangle
	Quadrangle
	Tetrahedron
	Hexahedron
)

var (
	ErrUnsupportedElementKind = errors.New("unsupported element kind")
	ErrDimensionMismatch      = errors.New("dimension mismatch")
)

// Kinds lists every supported element kind in enumeration order
var Kinds = []Kind{Line, Triangle, Quadrangle, Tetrahedron, Hexahedron}

type basisFunc func(xi, N []float64, dN [][]float64)

type entry struct {
	name    string
	dim     int
	measure float64 // length, area or volume of the reference domain
	nodes   [][]float64
	basis   basisFunc
}

var (
	quadNodes = [][]float64{
		{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
	}
	hexNodes = [][]float64{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
)

var catalog = [...]entry{
	Line: {
		name:    "Line",
		dim:     1,
		measure: 2,
		nodes:   [][]float64{{-1}, {1}},
		basis:   lineBasis,
	},
	Triangle: {
		name:    "Triangle",
		dim:     2,
		measure: 0.5,
		nodes:   [][]float64{{0, 0}, {1, 0}, {0, 1}},
		basis:   simplexBasis,
	},
	Quadrangle: {
		name:    "Quadrangle",
		dim:     2,
		measure: 4,
		nodes:   quadNodes,
		basis:   tensorBasis(quadNodes),
	},
	Tetrahedron: {
		name:    "Tetrahedron",
		dim:     3,
		measure: 1. / 6.,
		nodes:   [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		basis:   simplexBasis,
	},
	Hexahedron: {
		name:    "Hexahedron",
		dim:     3,
		measure: 8,
		nodes:   hexNodes,
		basis:   tensorBasis(hexNodes),
	},
}

func (k Kind) valid() bool { return int(k) < len(catalog) }

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return catalog[k].name
}

func (k Kind) lookup() (e *entry, err error) {
	if !k.valid() {
		err = fmt.Errorf("%w: %d", ErrUnsupportedElementKind, uint8(k))
		return
	}
	e = &catalog[k]
	return
}

// ParseKind accepts the catalog names and the usual short aliases, case insensitive
func ParseKind(s string) (k Kind, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line", "lin", "edge":
		k = Line
	case "triangle", "tri":
		k = Triangle
	case "quadrangle", "quad", "quadrilateral":
		k = Quadrangle
	case "tetrahedron", "tet":
		k = Tetrahedron
	case "hexahedron", "hex":
		k = Hexahedron
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedElementKind, s)
	}
	return
}

func NodeCount(k Kind) (int, error) {
	e, err := k.lookup()
	if err != nil {
		return 0, err
	}
	return len(e.nodes), nil
}

// Dim is the intrinsic (reference) dimension of the element
func Dim(k Kind) (int, error) {
	e, err := k.lookup()
	if err != nil {
		return 0, err
	}
	return e.dim, nil
}

// Measure returns the length, area or volume of the reference domain
func Measure(k Kind) (float64, error) {
	e, err := k.lookup()
	if err != nil {
		return 0, err
	}
	return e.measure, nil
}

// ReferenceNodes returns a copy of the reference coordinates of the element's nodes,
// in local node order
func ReferenceNodes(k Kind) (nodes [][]float64, err error) {
	var e *entry
	if e, err = k.lookup(); err != nil {
		return
	}
	nodes = make([][]float64, len(e.nodes))
	for i, n := range e.nodes {
		nodes[i] = append([]float64(nil), n...)
	}
	return
}
