package quadrature

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MaxGaussPoints bounds the per-axis Gauss-Legendre point count of the tensor
// product rules, which caps their exactness at 2*MaxGaussPoints-1
const MaxGaussPoints = 16

// GaussLegendre returns the n point Gauss-Legendre nodes (ascending) and weights
// on [-1,1]. The nodes are the eigenvalues of the symmetric tridiagonal Jacobi
// matrix of the Legendre recurrence, the weights are 2*v0^2 where v0 is the first
// component of each normalized eigenvector (Golub-Welsch).
func GaussLegendre(n int) (X, W []float64) {
	var (
		JJ  *mat.SymDense
		VVr mat.Dense
		eig mat.EigenSym
	)
	if n < 1 {
		return
	}
	if n == 1 {
		return []float64{0}, []float64{2}
	}

	// Alpha = Beta = 0: zero main diagonal, off diagonal m/sqrt(4m^2-1)
	JJ = mat.NewSymDense(n, nil)
	for i := 0; i < n-1; i++ {
		m := float64(i + 1)
		JJ.SetSym(i, i+1, m/math.Sqrt(4*m*m-1))
	}

	if ok := eig.Factorize(JJ, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)
	eig.VectorsTo(&VVr)
	W = make([]float64, n)
	for i := range W {
		v := VVr.At(0, i)
		W[i] = 2 * v * v
	}
	symmetrize(X, W)
	return
}

// symmetrize removes the round off asymmetry of the eigen solve, the rule is
// symmetric about the origin by construction
func symmetrize(X, W []float64) {
	n := len(X)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		x := 0.5 * (X[j] - X[i])
		w := 0.5 * (W[i] + W[j])
		X[i], X[j] = -x, x
		W[i], W[j] = w, w
	}
	if n%2 == 1 {
		X[n/2] = 0
	}
}

// gaussPointsForOrder is the smallest n with 2n-1 >= order
func gaussPointsForOrder(order int) (n int) {
	n = (order + 2) / 2
	if n < 1 {
		n = 1
	}
	return
}

// tensorRule forms the dim fold tensor product of a 1D rule, the first reference
// coordinate varies fastest
func tensorRule(dim int, X, W []float64) (pts [][]float64, wts []float64) {
	var (
		n     = len(X)
		total = 1
	)
	for d := 0; d < dim; d++ {
		total *= n
	}
	pts = make([][]float64, total)
	wts = make([]float64, total)
	idx := make([]int, dim)
	for p := 0; p < total; p++ {
		rem := p
		for d := 0; d < dim; d++ {
			idx[d] = rem % n
			rem /= n
		}
		pt := make([]float64, dim)
		w := 1.
		for d := 0; d < dim; d++ {
			pt[d] = X[idx[d]]
			w *= W[idx[d]]
		}
		pts[p] = pt
		wts[p] = w
	}
	return
}
