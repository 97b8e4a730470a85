package rw

import (
	"errors"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/notargets/quadfe/element"
	"github.com/notargets/quadfe/jacobian"
	"github.com/notargets/quadfe/mesh"
	"github.com/notargets/quadfe/quaddata"
)

var ErrClosed = errors.New("writer is closed")

// Writer receives point clouds, element connectivity and the fields defined on
// them. Implementations decide the encoding; callers hand over arrays only.
type Writer interface {
	AppendNodes(nodes []jacobian.Point3) error
	// AppendMesh adds a block of cells of one kind, conn rows index into nodes
	// in reference node order
	AppendMesh(nodes []jacobian.Point3, kind element.Kind, conn [][]int) error
	// AppendCellData holds one value per cell over all mesh blocks, in the
	// order the blocks were appended
	AppendCellData(name string, data []float64) error
	AppendPointData(name string, data []float64) error
	AppendPointVectorData(name string, data []jacobian.Point3) error
	AppendFieldData(name string, value float64) error
	Close() error
}

type meshBlock struct {
	Kind         string            `json:"kind"`
	Nodes        []jacobian.Point3 `json:"nodes"`
	Connectivity [][]int           `json:"connectivity"`
}

type pointCloud struct {
	Nodes           []jacobian.Point3            `json:"nodes"`
	Meshes          []meshBlock                  `json:"meshes,omitempty"`
	CellData        map[string][]float64         `json:"cellData,omitempty"`
	PointData       map[string][]float64         `json:"pointData,omitempty"`
	PointVectorData map[string][]jacobian.Point3 `json:"pointVectorData,omitempty"`
	FieldData       map[string]float64           `json:"fieldData,omitempty"`
}

// YAMLWriter collects everything appended and encodes it as one YAML document
// on Close
type YAMLWriter struct {
	w      io.Writer
	pc     pointCloud
	ncells int
	closed bool
}

func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w: w,
		pc: pointCloud{
			CellData:        make(map[string][]float64),
			PointData:       make(map[string][]float64),
			PointVectorData: make(map[string][]jacobian.Point3),
			FieldData:       make(map[string]float64),
		},
	}
}

func (yw *YAMLWriter) AppendNodes(nodes []jacobian.Point3) error {
	if yw.closed {
		return ErrClosed
	}
	yw.pc.Nodes = append(yw.pc.Nodes, nodes...)
	return nil
}

func (yw *YAMLWriter) AppendMesh(nodes []jacobian.Point3, kind element.Kind, conn [][]int) error {
	if yw.closed {
		return ErrClosed
	}
	np, err := element.NodeCount(kind)
	if err != nil {
		return err
	}
	block := meshBlock{
		Kind:         kind.String(),
		Nodes:        append([]jacobian.Point3(nil), nodes...),
		Connectivity: make([][]int, len(conn)),
	}
	for c, row := range conn {
		if len(row) != np {
			return fmt.Errorf("cell %d: %s needs %d nodes, got %d", c, kind, np, len(row))
		}
		for _, n := range row {
			if n < 0 || n >= len(nodes) {
				return fmt.Errorf("cell %d references node %d of %d", c, n, len(nodes))
			}
		}
		block.Connectivity[c] = append([]int(nil), row...)
	}
	yw.pc.Meshes = append(yw.pc.Meshes, block)
	yw.ncells += len(conn)
	return nil
}

func (yw *YAMLWriter) AppendCellData(name string, data []float64) error {
	switch {
	case yw.closed:
		return ErrClosed
	case name == "":
		return fmt.Errorf("cell data needs a name")
	case len(data) != yw.ncells:
		return fmt.Errorf("cell data %q has %d values for %d cells", name, len(data), yw.ncells)
	}
	yw.pc.CellData[name] = append([]float64(nil), data...)
	return nil
}

func (yw *YAMLWriter) checkPointField(name string, length int) error {
	switch {
	case yw.closed:
		return ErrClosed
	case name == "":
		return fmt.Errorf("point data needs a name")
	case length != len(yw.pc.Nodes):
		return fmt.Errorf("point data %q has %d values for %d nodes", name, length, len(yw.pc.Nodes))
	}
	return nil
}

func (yw *YAMLWriter) AppendPointData(name string, data []float64) error {
	if err := yw.checkPointField(name, len(data)); err != nil {
		return err
	}
	yw.pc.PointData[name] = append([]float64(nil), data...)
	return nil
}

func (yw *YAMLWriter) AppendPointVectorData(name string, data []jacobian.Point3) error {
	if err := yw.checkPointField(name, len(data)); err != nil {
		return err
	}
	yw.pc.PointVectorData[name] = append([]jacobian.Point3(nil), data...)
	return nil
}

func (yw *YAMLWriter) AppendFieldData(name string, value float64) error {
	if yw.closed {
		return ErrClosed
	}
	yw.pc.FieldData[name] = value
	return nil
}

func (yw *YAMLWriter) Close() (err error) {
	if yw.closed {
		return ErrClosed
	}
	yw.closed = true
	var b []byte
	if b, err = yaml.Marshal(yw.pc); err != nil {
		return
	}
	_, err = yw.w.Write(b)
	return
}

// WriteBatch hands the quadrature points of an assembly pass to w: the point
// positions, JxW, detJ and the owning element of each point, along with the
// total measure. Failed elements contribute no points.
func WriteBatch(w Writer, br *quaddata.BatchResult) (err error) {
	var (
		np    = br.NumPoints()
		nodes = make([]jacobian.Point3, 0, np)
		jxw   = make([]float64, 0, np)
		detJ  = make([]float64, 0, np)
		owner = make([]float64, 0, np)
	)
	for k, qds := range br.Data {
		for _, qd := range qds {
			nodes = append(nodes, qd.P)
			jxw = append(jxw, qd.JxW())
			detJ = append(detJ, qd.DetJ)
			owner = append(owner, float64(k))
		}
	}
	if err = w.AppendNodes(nodes); err != nil {
		return
	}
	if err = w.AppendPointData("JxW", jxw); err != nil {
		return
	}
	if err = w.AppendPointData("DetJ", detJ); err != nil {
		return
	}
	if err = w.AppendPointData("Element", owner); err != nil {
		return
	}
	return w.AppendFieldData("Measure", br.Measure())
}

// WriteMesh hands the elements of an assembly pass to w, one block per kind
// sharing the mesh vertices, with the cell data Element (file ID), Measure and
// Rejected (1 for elements the pass failed, whose Measure is 0). index maps the
// pass elements to mesh elements as returned by mesh.BatchElements.
func WriteMesh(w Writer, m *mesh.Mesh, index []int, br *quaddata.BatchResult) (err error) {
	if len(index) != len(br.Data) {
		return fmt.Errorf("index has %d entries for %d elements", len(index), len(br.Data))
	}
	var (
		verts    = make([]jacobian.Point3, m.NumVertices)
		rejected = make(map[int]bool, len(br.Failures))
		ids      []float64
		measure  []float64
		failed   []float64
	)
	for v, c := range m.Vertices {
		copy(verts[v][:], c)
	}
	for _, f := range br.Failures {
		rejected[f.Elem] = true
	}
	for _, kind := range element.Kinds {
		var conn [][]int
		for k, e := range index {
			if m.ElementTypes[e] != kind {
				continue
			}
			conn = append(conn, m.Elements[e])
			ids = append(ids, float64(m.ElementIDs[e]))
			measure = append(measure, quaddata.Measure(br.Data[k]))
			if rejected[k] {
				failed = append(failed, 1)
			} else {
				failed = append(failed, 0)
			}
		}
		if len(conn) == 0 {
			continue
		}
		if err = w.AppendMesh(verts, kind, conn); err != nil {
			return
		}
	}
	if err = w.AppendCellData("Element", ids); err != nil {
		return
	}
	if err = w.AppendCellData("Measure", measure); err != nil {
		return
	}
	return w.AppendCellData("Rejected", failed)
}
