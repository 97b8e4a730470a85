package mass

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/notargets/quadfe/mesh"
	"github.com/notargets/quadfe/quaddata"
)

// Consistent assembles the global consistent mass matrix
//
//	M[a][b] = sum_e sum_q N_a N_b W |detJ|
//
// over the vertices of m from an assembly pass. index maps each element of the
// pass to its mesh element, as returned by mesh.BatchElements; elements that
// failed the pass contribute nothing.
func Consistent(m *mesh.Mesh, index []int, br *quaddata.BatchResult) (M *sparse.CSR, err error) {
	if len(index) != len(br.Data) {
		err = fmt.Errorf("index has %d entries for %d elements", len(index), len(br.Data))
		return
	}
	dok := sparse.NewDOK(m.NumVertices, m.NumVertices)
	for k, qds := range br.Data {
		if len(qds) == 0 {
			continue
		}
		conn := m.Elements[index[k]]
		if len(conn) != len(qds[0].Shapes) {
			err = fmt.Errorf("element %d: %d vertices for %d shape functions", index[k], len(conn), len(qds[0].Shapes))
			return
		}
		for q := range qds {
			var (
				jxw = qds[q].JxW()
				N   = qds[q].Shapes
			)
			for a, ia := range conn {
				for b, ib := range conn {
					dok.Set(ia, ib, dok.At(ia, ib)+N[a]*N[b]*jxw)
				}
			}
		}
	}
	M = dok.ToCSR()
	return
}

// Lumped returns the row sums of M
func Lumped(M *sparse.CSR) (diag []float64) {
	nr, _ := M.Dims()
	diag = make([]float64, nr)
	M.DoNonZero(func(i, j int, v float64) {
		diag[i] += v
	})
	return
}

// Total sums every entry of M, by partition of unity the measure of the mesh
func Total(M *sparse.CSR) (sum float64) {
	M.DoNonZero(func(i, j int, v float64) {
		sum += v
	})
	return
}
