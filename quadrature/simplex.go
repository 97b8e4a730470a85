package quadrature

import "math"

// orbit is one symmetry class of a fully symmetric simplex rule, given in
// barycentric coordinates. Weights are normalized to a unit measure simplex and
// scaled by the reference measure when the rule is expanded.
type orbit struct {
	kind orbitKind
	a, b float64
	w    float64
}

type orbitKind uint8

const (
	centroid orbitKind = iota
	s21                // triangle (a, a, 1-2a), 3 points
	s111               // triangle (a, b, 1-a-b), 6 points
	s31                // tetrahedron (a, a, a, 1-3a), 4 points
	s22                // tetrahedron (a, a, 1/2-a, 1/2-a), 6 points
)

type simplexRule struct {
	degree int
	orbits []orbit
}

var sqrt15, sqrt5, sqrt5o14 = math.Sqrt(15), math.Sqrt(5), math.Sqrt(5./14.)

// triangleRules are the symmetric Gauss rules of Dunavant (1985) and Radon's
// seven point rule, sorted by exactness degree
var triangleRules = []simplexRule{
	{degree: 1, orbits: []orbit{
		{kind: centroid, w: 1},
	}},
	{degree: 2, orbits: []orbit{
		{kind: s21, a: 1. / 6., w: 1. / 3.},
	}},
	{degree: 4, orbits: []orbit{
		{kind: s21, a: 0.44594849091596488632, w: 0.22338158967801146570},
		{kind: s21, a: 0.091576213509770743460, w: 0.10995174365532186764},
	}},
	{degree: 5, orbits: []orbit{
		{kind: centroid, w: 9. / 40.},
		{kind: s21, a: (6 - sqrt15) / 21, w: (155 - sqrt15) / 1200},
		{kind: s21, a: (6 + sqrt15) / 21, w: (155 + sqrt15) / 1200},
	}},
	{degree: 6, orbits: []orbit{
		{kind: s21, a: 0.24928674517091042129, w: 0.11678627572637936603},
		{kind: s21, a: 0.063089014491502228340, w: 0.050844906370206816921},
		{kind: s111, a: 0.053145049844816947353, b: 0.31035245103378440542, w: 0.082851075618373575194},
	}},
}

// tetrahedronRules: centroid, the four point Hammer-Stroud rule, the five point
// degree three rule and Keast's eleven point degree four rule (negative centroid
// weights), then the fourteen point positive degree five rule of Walkington
var tetrahedronRules = []simplexRule{
	{degree: 1, orbits: []orbit{
		{kind: centroid, w: 1},
	}},
	{degree: 2, orbits: []orbit{
		{kind: s31, a: (5 - sqrt5) / 20, w: 1. / 4.},
	}},
	{degree: 3, orbits: []orbit{
		{kind: centroid, w: -4. / 5.},
		{kind: s31, a: 1. / 6., w: 9. / 20.},
	}},
	{degree: 4, orbits: []orbit{
		{kind: centroid, w: -148. / 1875.},
		{kind: s31, a: 1. / 14., w: 343. / 7500.},
		{kind: s22, a: (1 + sqrt5o14) / 4, w: 56. / 375.},
	}},
	{degree: 5, orbits: []orbit{
		{kind: s31, a: 0.0927352503108912, w: 6 * 0.01224884051939366},
		{kind: s31, a: 0.3108859192633006, w: 6 * 0.01878132095300264},
		{kind: s22, a: 0.045503704125649649, w: 6 * 0.007091003462846911},
	}},
}

// expand produces reference points (the last dim barycentric coordinates) and
// weights scaled to the reference measure
func (sr simplexRule) expand(dim int, measure float64) (pts [][]float64, wts []float64) {
	add := func(bary []float64, w float64) {
		pts = append(pts, append([]float64(nil), bary[1:]...))
		wts = append(wts, w*measure)
	}
	for _, o := range sr.orbits {
		switch o.kind {
		case centroid:
			bary := make([]float64, dim+1)
			for i := range bary {
				bary[i] = 1 / float64(dim+1)
			}
			add(bary, o.w)
		case s21:
			c := 1 - 2*o.a
			for _, bary := range [][]float64{{o.a, o.a, c}, {o.a, c, o.a}, {c, o.a, o.a}} {
				add(bary, o.w)
			}
		case s111:
			c := 1 - o.a - o.b
			for _, bary := range [][]float64{
				{o.a, o.b, c}, {o.a, c, o.b}, {o.b, o.a, c},
				{o.b, c, o.a}, {c, o.a, o.b}, {c, o.b, o.a},
			} {
				add(bary, o.w)
			}
		case s31:
			c := 1 - 3*o.a
			for odd := 0; odd < 4; odd++ {
				bary := []float64{o.a, o.a, o.a, o.a}
				bary[odd] = c
				add(bary, o.w)
			}
		case s22:
			c := 0.5 - o.a
			for _, bary := range [][]float64{
				{o.a, o.a, c, c}, {o.a, c, o.a, c}, {o.a, c, c, o.a},
				{c, o.a, o.a, c}, {c, o.a, c, o.a}, {c, c, o.a, o.a},
			} {
				add(bary, o.w)
			}
		}
	}
	return
}
