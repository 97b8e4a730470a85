package jacobian

import "fmt"

// Det is the closed form cofactor expansion of a 1x1, 2x2 or 3x3 matrix
func Det(A [][]float64) float64 {
	switch len(A) {
	case 1:
		return A[0][0]
	case 2:
		return A[0][0]*A[1][1] - A[0][1]*A[1][0]
	case 3:
		return A[0][0]*(A[1][1]*A[2][2]-A[1][2]*A[2][1]) -
			A[0][1]*(A[1][0]*A[2][2]-A[1][2]*A[2][0]) +
			A[0][2]*(A[1][0]*A[2][1]-A[1][1]*A[2][0])
	default:
		panic(fmt.Sprintf("closed form determinant undefined for %dx%d", len(A), len(A)))
	}
}

// Inverse returns adj(A)/det for a 1x1, 2x2 or 3x3 matrix whose determinant det
// is already known and non zero
func Inverse(A [][]float64, det float64) (Ainv [][]float64) {
	n := len(A)
	Ainv = make([][]float64, n)
	for i := range Ainv {
		Ainv[i] = make([]float64, n)
	}
	oodet := 1. / det
	switch n {
	case 1:
		Ainv[0][0] = oodet
	case 2:
		Ainv[0][0] = A[1][1] * oodet
		Ainv[0][1] = -A[0][1] * oodet
		Ainv[1][0] = -A[1][0] * oodet
		Ainv[1][1] = A[0][0] * oodet
	case 3:
		Ainv[0][0] = (A[1][1]*A[2][2] - A[1][2]*A[2][1]) * oodet
		Ainv[0][1] = -(A[0][1]*A[2][2] - A[0][2]*A[2][1]) * oodet
		Ainv[0][2] = (A[0][1]*A[1][2] - A[0][2]*A[1][1]) * oodet

		Ainv[1][0] = -(A[1][0]*A[2][2] - A[1][2]*A[2][0]) * oodet
		Ainv[1][1] = (A[0][0]*A[2][2] - A[0][2]*A[2][0]) * oodet
		Ainv[1][2] = -(A[0][0]*A[1][2] - A[0][2]*A[1][0]) * oodet

		Ainv[2][0] = (A[1][0]*A[2][1] - A[1][1]*A[2][0]) * oodet
		Ainv[2][1] = -(A[0][0]*A[2][1] - A[0][1]*A[2][0]) * oodet
		Ainv[2][2] = (A[0][0]*A[1][1] - A[0][1]*A[1][0]) * oodet
	default:
		panic(fmt.Sprintf("closed form inverse undefined for %dx%d", n, n))
	}
	return
}
