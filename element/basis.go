package element

import "fmt"

// EvaluateBasis returns the shape function values N[a] and their reference
// derivatives dN[a][j] = dN_a/dxi_j at the reference point xi.
func EvaluateBasis(k Kind, xi []float64) (N []float64, dN [][]float64, err error) {
	var (
		e  *entry
		np int
	)
	if e, err = k.lookup(); err != nil {
		return
	}
	np = len(e.nodes)
	N = make([]float64, np)
	dN = make([][]float64, np)
	for a := range dN {
		dN[a] = make([]float64, e.dim)
	}
	if err = EvaluateBasisInto(k, xi, N, dN); err != nil {
		N, dN = nil, nil
	}
	return
}

// EvaluateBasisInto is the allocation free form of EvaluateBasis, N and dN must be
// sized NodeCount and NodeCount x Dim
func EvaluateBasisInto(k Kind, xi, N []float64, dN [][]float64) (err error) {
	var e *entry
	if e, err = k.lookup(); err != nil {
		return
	}
	if len(xi) != e.dim {
		return fmt.Errorf("%w: %s reference point has %d coordinates, want %d",
			ErrDimensionMismatch, e.name, len(xi), e.dim)
	}
	if len(N) != len(e.nodes) || len(dN) != len(e.nodes) {
		return fmt.Errorf("%w: %s basis storage sized %d/%d, want %d",
			ErrDimensionMismatch, e.name, len(N), len(dN), len(e.nodes))
	}
	for a := range dN {
		if len(dN[a]) != e.dim {
			return fmt.Errorf("%w: %s derivative row %d has %d entries, want %d",
				ErrDimensionMismatch, e.name, a, len(dN[a]), e.dim)
		}
	}
	e.basis(xi, N, dN)
	return
}

// Interpolate evaluates sum_a N_a(xi) * nodal[a]
func Interpolate(k Kind, nodal, xi []float64) (val float64, err error) {
	var N []float64
	if N, _, err = EvaluateBasis(k, xi); err != nil {
		return
	}
	if len(nodal) != len(N) {
		err = fmt.Errorf("%w: %d nodal values for %s with %d nodes",
			ErrDimensionMismatch, len(nodal), k, len(N))
		return
	}
	for a, n := range N {
		val += n * nodal[a]
	}
	return
}

// Contains reports whether xi lies inside the reference domain, widened by tol
func Contains(k Kind, xi []float64, tol float64) (bool, error) {
	e, err := k.lookup()
	if err != nil {
		return false, err
	}
	if len(xi) != e.dim {
		return false, fmt.Errorf("%w: %s reference point has %d coordinates, want %d",
			ErrDimensionMismatch, e.name, len(xi), e.dim)
	}
	switch k {
	case Triangle, Tetrahedron:
		var sum float64
		for _, x := range xi {
			if x < -tol {
				return false, nil
			}
			sum += x
		}
		return sum <= 1+tol, nil
	default:
		for _, x := range xi {
			if x < -1-tol || x > 1+tol {
				return false, nil
			}
		}
		return true, nil
	}
}

func lineBasis(xi, N []float64, dN [][]float64) {
	r := xi[0]
	N[0], N[1] = 0.5*(1-r), 0.5*(1+r)
	dN[0][0], dN[1][0] = -0.5, 0.5
}

// simplexBasis is the linear basis on the unit simplex: node 0 at the origin
// carries the complementary barycentric coordinate, node i+1 carries xi_i
func simplexBasis(xi, N []float64, dN [][]float64) {
	var sum float64
	for i, x := range xi {
		sum += x
		N[i+1] = x
		for j := range xi {
			dN[i+1][j] = 0
		}
		dN[i+1][i] = 1
		dN[0][i] = -1
	}
	N[0] = 1 - sum
}

// tensorBasis builds the multilinear basis on [-1,1]^d whose nodes sit at the
// corners given: N_a = prod_i (1 + xi_i*c_ai) / 2
func tensorBasis(corners [][]float64) basisFunc {
	return func(xi, N []float64, dN [][]float64) {
		d := len(xi)
		for a, c := range corners {
			var (
				f   [3]float64
				val = 1.
			)
			for i := 0; i < d; i++ {
				f[i] = 0.5 * (1 + xi[i]*c[i])
				val *= f[i]
			}
			N[a] = val
			for j := 0; j < d; j++ {
				der := 0.5 * c[j]
				for i := 0; i < d; i++ {
					if i != j {
						der *= f[i]
					}
				}
				dN[a][j] = der
			}
		}
	}
}
