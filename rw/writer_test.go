package rw

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/notargets/quadfe/element"
	"github.com/notargets/quadfe/jacobian"
	"github.com/notargets/quadfe/mesh"
	"github.com/notargets/quadfe/quaddata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLWriter(t *testing.T) {
	var buf bytes.Buffer
	yw := NewYAMLWriter(&buf)
	var _ Writer = yw

	nodes := []jacobian.Point3{{0, 0, 0}, {1, 0.5, 0}}
	require.NoError(t, yw.AppendNodes(nodes))
	require.NoError(t, yw.AppendPointData("u", []float64{1, 2}))
	require.NoError(t, yw.AppendPointVectorData("v", []jacobian.Point3{{1, 0, 0}, {0, 1, 0}}))
	require.NoError(t, yw.AppendFieldData("Time", 0.25))

	assert.ErrorContains(t, yw.AppendPointData("w", []float64{1}), "1 values for 2 nodes")
	assert.ErrorContains(t, yw.AppendPointData("", []float64{1, 2}), "needs a name")
	assert.Zero(t, buf.Len())

	require.NoError(t, yw.Close())
	assert.Contains(t, buf.String(), "pointData:")

	var pc pointCloud
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &pc))
	assert.Equal(t, nodes, pc.Nodes)
	assert.Equal(t, []float64{1, 2}, pc.PointData["u"])
	assert.Equal(t, jacobian.Point3{0, 1, 0}, pc.PointVectorData["v"][1])
	assert.Equal(t, 0.25, pc.FieldData["Time"])

	assert.ErrorIs(t, yw.AppendNodes(nodes), ErrClosed)
	assert.ErrorIs(t, yw.Close(), ErrClosed)
}

func TestYAMLWriterMesh(t *testing.T) {
	var buf bytes.Buffer
	yw := NewYAMLWriter(&buf)

	verts := []jacobian.Point3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	assert.ErrorContains(t, yw.AppendCellData("Measure", []float64{1}), "1 values for 0 cells")
	require.NoError(t, yw.AppendMesh(verts, element.Triangle, [][]int{{0, 1, 2}, {0, 2, 3}}))
	require.NoError(t, yw.AppendMesh(verts, element.Line, [][]int{{3, 0}}))
	assert.ErrorContains(t, yw.AppendMesh(verts, element.Triangle, [][]int{{0, 1}}), "needs 3 nodes, got 2")
	assert.ErrorContains(t, yw.AppendMesh(verts, element.Triangle, [][]int{{0, 1, 4}}), "references node 4 of 4")
	assert.ErrorContains(t, yw.AppendMesh(verts, element.Triangle, [][]int{{-1, 1, 2}}), "references node -1")
	assert.Error(t, yw.AppendMesh(verts, element.Kind(42), nil))

	assert.ErrorContains(t, yw.AppendCellData("Measure", []float64{0.5, 0.5}), "2 values for 3 cells")
	assert.ErrorContains(t, yw.AppendCellData("", []float64{0.5, 0.5, 1}), "needs a name")
	require.NoError(t, yw.AppendCellData("Measure", []float64{0.5, 0.5, 1}))
	require.NoError(t, yw.Close())

	var pc pointCloud
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &pc))
	require.Len(t, pc.Meshes, 2)
	assert.Equal(t, "Triangle", pc.Meshes[0].Kind)
	assert.Equal(t, verts, pc.Meshes[0].Nodes)
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}}, pc.Meshes[0].Connectivity)
	assert.Equal(t, "Line", pc.Meshes[1].Kind)
	assert.Equal(t, []float64{0.5, 0.5, 1}, pc.CellData["Measure"])

	assert.ErrorIs(t, yw.AppendMesh(verts, element.Line, nil), ErrClosed)
	assert.ErrorIs(t, yw.AppendCellData("Measure", nil), ErrClosed)
}

// Unit square in two triangles, a unit quadrangle to its right and a collapsed
// triangle
const cellsMesh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
8
1 0 0 0
2 1 0 0
3 1 1 0
4 0 1 0
5 2 0 0
6 2 1 0
7 3 0 0
8 4 0 0
$EndNodes
$Elements
4
3 2 2 2 1 1 2 3
5 3 2 2 1 2 5 6 3
4 2 2 2 1 1 3 4
7 2 2 2 1 5 7 8
$EndElements
`

func TestWriteMesh(t *testing.T) {
	m, err := mesh.ReadGmsh22(strings.NewReader(cellsMesh))
	require.NoError(t, err)
	elems, index := m.BatchElements(2)
	br, err := quaddata.NewAssembler().AssembleMesh(context.Background(), elems, 1, 2)
	require.NoError(t, err)
	require.Len(t, br.Failures, 1)

	var buf bytes.Buffer
	yw := NewYAMLWriter(&buf)
	require.NoError(t, WriteMesh(yw, m, index, br))
	require.NoError(t, WriteBatch(yw, br))
	require.NoError(t, yw.Close())

	var pc pointCloud
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &pc))
	require.Len(t, pc.Meshes, 2)
	assert.Equal(t, "Triangle", pc.Meshes[0].Kind)
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}, {4, 6, 7}}, pc.Meshes[0].Connectivity)
	assert.Equal(t, "Quadrangle", pc.Meshes[1].Kind)
	assert.Equal(t, [][]int{{1, 4, 5, 2}}, pc.Meshes[1].Connectivity)
	assert.Len(t, pc.Meshes[1].Nodes, 8)
	assert.Equal(t, jacobian.Point3{4, 0, 0}, pc.Meshes[1].Nodes[7])

	// cells follow the blocks, not the file order
	assert.Equal(t, []float64{3, 4, 7, 5}, pc.CellData["Element"])
	assert.Equal(t, []float64{0, 0, 1, 0}, pc.CellData["Rejected"])
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0, 1}, pc.CellData["Measure"], 1.e-14)
	assert.InDelta(t, 2., pc.FieldData["Measure"], 1.e-14)

	assert.ErrorContains(t, WriteMesh(NewYAMLWriter(&buf), m, index[:2], br), "2 entries for 4 elements")
}

func TestWriteBatch(t *testing.T) {
	elems := []quaddata.Element{
		{Kind: element.Triangle, Nodes: []jacobian.Point3{{0, 0}, {2, 0}, {0, 2}}},
		{Kind: element.Triangle, Nodes: []jacobian.Point3{{0, 0}, {1, 0}, {2, 0}}},
		{Kind: element.Quadrangle, Nodes: []jacobian.Point3{{2, 0}, {3, 0}, {3, 1}, {2, 1}}},
	}
	br, err := quaddata.NewAssembler().AssembleMesh(context.Background(), elems, 2, 2)
	require.NoError(t, err)
	require.Len(t, br.Failures, 1)

	var buf bytes.Buffer
	yw := NewYAMLWriter(&buf)
	require.NoError(t, WriteBatch(yw, br))
	require.NoError(t, yw.Close())

	var pc pointCloud
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &pc))
	require.Len(t, pc.Nodes, 3+4)
	assert.Equal(t, []float64{0, 0, 0, 2, 2, 2, 2}, pc.PointData["Element"])
	var sum float64
	for _, w := range pc.PointData["JxW"] {
		sum += w
	}
	assert.InDelta(t, 3., sum, 1.e-12)
	assert.InDelta(t, 3., pc.FieldData["Measure"], 1.e-12)
	assert.InDelta(t, 4., pc.PointData["DetJ"][0], 1.e-12)
}
