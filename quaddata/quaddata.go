package quaddata

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/quadfe/jacobian"
)

// QuadData is the quadrature data of one physical element at one quadrature point.
//
// W is the reference rule weight, NOT scaled by the Jacobian: the integral of f
// over the physical element is sum_q W_q * |DetJ_q| * f(P_q), see JxW.
//
// DerShapes[a][i] = dN_a/dx_i in physical coordinates, J[i][j] = dx_i/dxi_j.
// Records are self contained values owned by the caller that assembled them.
type QuadData struct {
	W         float64
	P         jacobian.Point3
	Shapes    []float64
	DerShapes [][]float64
	J         [][]float64
	DetJ      float64
}

// JxW is the physical integration weight W * |DetJ|
func (q *QuadData) JxW() float64 {
	return q.W * math.Abs(q.DetJ)
}

func (q *QuadData) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "------- QuadData --------\n\n")
	fmt.Fprintf(&b, "Weight = %v\n", q.W)
	fmt.Fprintf(&b, "Point = (%v, %v, %v)\n", q.P[0], q.P[1], q.P[2])
	fmt.Fprintf(&b, "Shapes = %v\n", q.Shapes)
	fmt.Fprintf(&b, "Derivative = %v\n", q.DerShapes)
	fmt.Fprintf(&b, "Jacobian = %v\n", q.J)
	fmt.Fprintf(&b, "Det(J) = %v\n\n", q.DetJ)
	return b.String()
}

// Measure sums JxW over the records of one element, its length, area or volume
func Measure(qds []QuadData) (m float64) {
	for i := range qds {
		m += qds[i].JxW()
	}
	return
}
