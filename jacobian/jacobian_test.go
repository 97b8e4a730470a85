package jacobian

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/notargets/quadfe/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func refPoints(t *testing.T, k element.Kind) (nodes []Point3) {
	ref, err := element.ReferenceNodes(k)
	require.NoError(t, err)
	for _, r := range ref {
		var p Point3
		copy(p[:], r)
		nodes = append(nodes, p)
	}
	return
}

func mapAt(t *testing.T, m Mapper, k element.Kind, nodes []Point3, xi []float64) (*Mapping, error) {
	N, dN, err := element.EvaluateBasis(k, xi)
	require.NoError(t, err)
	return m.Map(k, nodes, N, dN)
}

func TestDetAndInverseAgainstGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for n := 1; n <= 3; n++ {
		for trial := 0; trial < 20; trial++ {
			A := make([][]float64, n)
			flat := make([]float64, 0, n*n)
			for i := range A {
				A[i] = make([]float64, n)
				for j := range A[i] {
					A[i][j] = 2*rng.Float64() - 1
					if i == j {
						A[i][j] += 2
					}
					flat = append(flat, A[i][j])
				}
			}
			G := mat.NewDense(n, n, flat)
			det := Det(A)
			assert.InDelta(t, mat.Det(G), det, 1.e-12)

			var Ginv mat.Dense
			require.NoError(t, Ginv.Inverse(G))
			Ainv := Inverse(A, det)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					assert.InDelta(t, Ginv.At(i, j), Ainv[i][j], 1.e-10)
				}
			}
		}
	}
	assert.Panics(t, func() { Det(make([][]float64, 4)) })
}

func TestIdentityMap(t *testing.T) {
	for _, k := range element.Kinds {
		nodes := refPoints(t, k)
		dim, _ := element.Dim(k)
		xi := make([]float64, dim)
		for i := range xi {
			xi[i] = 0.1 * float64(i+1)
		}
		mp, err := mapAt(t, Mapper{}, k, nodes, xi)
		require.NoError(t, err, k.String())
		assert.InDelta(t, 1., mp.DetJ, 1.e-14, k.String())
		for i := 0; i < dim; i++ {
			assert.InDelta(t, xi[i], mp.X[i], 1.e-14)
			for j := 0; j < dim; j++ {
				want := 0.
				if i == j {
					want = 1
				}
				assert.InDelta(t, want, mp.J[i][j], 1.e-14)
			}
		}
	}
}

func TestAffineTriangleDerivatives(t *testing.T) {
	var (
		nodes = []Point3{{1, 1}, {4, 2}, {2, 5}}
		xi    = []float64{0.2, 0.3}
	)
	mp, err := mapAt(t, Mapper{}, element.Triangle, nodes, xi)
	require.NoError(t, err)
	// J columns are the edge vectors x1-x0 and x2-x0
	assert.InDelta(t, 3., mp.J[0][0], 1.e-14)
	assert.InDelta(t, 1., mp.J[0][1], 1.e-14)
	assert.InDelta(t, 1., mp.J[1][0], 1.e-14)
	assert.InDelta(t, 4., mp.J[1][1], 1.e-14)
	assert.InDelta(t, 11., mp.DetJ, 1.e-13)
	assert.InDelta(t, 1+3*0.2+1*0.3, mp.X[0], 1.e-14)
	assert.InDelta(t, 1+1*0.2+4*0.3, mp.X[1], 1.e-14)

	// Gradient of the coordinate field x_j is the unit vector e_j
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var g float64
			for a := range nodes {
				g += mp.DerShapes[a][i] * nodes[a][j]
			}
			want := 0.
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, g, 1.e-13)
		}
	}
	// N_1 = ((y2-y0)(x-x0) - (x2-x0)(y-y0)) / detJ
	assert.InDelta(t, 4./11., mp.DerShapes[1][0], 1.e-14)
	assert.InDelta(t, -1./11., mp.DerShapes[1][1], 1.e-14)
}

func TestPhysicalDerivativesSumToZero(t *testing.T) {
	var (
		rng   = rand.New(rand.NewSource(11))
		cases = map[element.Kind][]Point3{
			element.Line:        {{0.5}, {2.25}},
			element.Triangle:    {{0, 0}, {2, 0.3}, {0.4, 1.7}},
			element.Quadrangle:  {{0, 0}, {2, 0.2}, {2.3, 1.9}, {-0.2, 1.4}},
			element.Tetrahedron: {{0, 0, 0}, {1.5, 0, 0.1}, {0.2, 1.2, 0}, {0.1, 0.3, 0.9}},
			element.Hexahedron: {
				{0, 0, 0}, {1, 0, 0}, {1.1, 1, 0}, {0, 0.9, 0},
				{0, 0, 1}, {1, 0.1, 1.2}, {1, 1, 1}, {0.1, 1, 1},
			},
		}
	)
	for k, nodes := range cases {
		dim, _ := element.Dim(k)
		for trial := 0; trial < 10; trial++ {
			xi := make([]float64, dim)
			for i := range xi {
				if k == element.Triangle || k == element.Tetrahedron {
					xi[i] = rng.Float64() / float64(dim)
				} else {
					xi[i] = 2*rng.Float64() - 1
				}
			}
			mp, err := mapAt(t, Mapper{}, k, nodes, xi)
			require.NoError(t, err, k.String())
			assert.Greater(t, mp.DetJ, 0.)
			for i := 0; i < dim; i++ {
				var s float64
				for a := range mp.DerShapes {
					s += mp.DerShapes[a][i]
				}
				assert.InDeltaf(t, 0., s, 1.e-10, "%s d/dx_%d", k, i)
			}
		}
	}
}

func TestCollinearTriangleIsDegenerate(t *testing.T) {
	nodes := []Point3{{0, 0}, {1, 0}, {2, 0}}
	mp, err := mapAt(t, Mapper{}, element.Triangle, nodes, []float64{1. / 3., 1. / 3.})
	assert.Nil(t, mp)
	require.ErrorIs(t, err, ErrDegenerateElement)
	assert.False(t, errors.Is(err, ErrInvertedElement))
	var de *DetError
	require.ErrorAs(t, err, &de)
	assert.InDelta(t, 0., de.DetJ, 1.e-15)
}

func TestNonFiniteCoordinatesAreDegenerate(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		nodes := []Point3{{0, 0}, {1, 0}, {0, bad}}
		mp, err := mapAt(t, Mapper{}, element.Triangle, nodes, []float64{1. / 3., 1. / 3.})
		assert.Nil(t, mp)
		assert.ErrorIsf(t, err, ErrDegenerateElement, "node coordinate %v", bad)
	}
}

func TestReversedQuadrangleIsInverted(t *testing.T) {
	nodes := []Point3{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	mp, err := mapAt(t, Mapper{}, element.Quadrangle, nodes, []float64{0, 0})
	require.ErrorIs(t, err, ErrInvertedElement)
	assert.False(t, errors.Is(err, ErrDegenerateElement))
	require.NotNil(t, mp)
	assert.InDelta(t, -0.25, mp.DetJ, 1.e-15)
	var de *DetError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, mp.DetJ, de.DetJ)
	assert.Len(t, mp.DerShapes, 4)
}

func TestToleranceIsRelative(t *testing.T) {
	const s = 1.e-7
	nodes := []Point3{{0, 0, 0}, {s, 0, 0}, {0, s, 0}, {0, 0, s}}
	mp, err := mapAt(t, Mapper{}, element.Tetrahedron, nodes, []float64{0.25, 0.25, 0.25})
	require.NoError(t, err)
	assert.InDelta(t, s*s*s, mp.DetJ, 1.e-30)

	// Nearly flat: detJ relative to h^3 is 1e-10
	flat := []Point3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0.3, 0.3, 1.e-10}}
	_, err = mapAt(t, Mapper{}, element.Tetrahedron, flat, []float64{0.25, 0.25, 0.25})
	assert.NoError(t, err)
	_, err = mapAt(t, Mapper{RelTol: 1.e-9}, element.Tetrahedron, flat, []float64{0.25, 0.25, 0.25})
	assert.ErrorIs(t, err, ErrDegenerateElement)
}

func TestMapDimensionErrors(t *testing.T) {
	N, dN, err := element.EvaluateBasis(element.Triangle, []float64{0.1, 0.1})
	require.NoError(t, err)
	_, err = Mapper{}.Map(element.Triangle, []Point3{{0, 0}, {1, 0}}, N, dN)
	assert.ErrorIs(t, err, element.ErrDimensionMismatch)
	_, err = Mapper{}.Map(element.Quadrangle, []Point3{{0, 0}, {1, 0}, {0, 1}}, N, dN)
	assert.ErrorIs(t, err, element.ErrDimensionMismatch)
	_, err = Mapper{}.Map(element.Kind(8), nil, nil, nil)
	assert.ErrorIs(t, err, element.ErrUnsupportedElementKind)
}

func TestCharacteristicSize(t *testing.T) {
	assert.InDelta(t, 5., CharacteristicSize([]Point3{{0, 0, 9}, {3, 4, -9}}, 2), 1.e-15)
	assert.Equal(t, 0., CharacteristicSize(nil, 3))
}
