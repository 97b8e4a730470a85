package mesh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/quadfe/element"
	"github.com/notargets/quadfe/jacobian"
	"github.com/notargets/quadfe/quaddata"
)

// Mesh holds node coordinates and element connectivity, the inputs of an
// assembly pass. Vertex and element storage is zero based; the file IDs are kept
// in NodeIDMap and ElementIDs.
type Mesh struct {
	Vertices     [][]float64    // Vertex coordinates [nvertices][3]
	Elements     [][]int        // Element to vertex connectivity, reference node order
	ElementTypes []element.Kind // Element kind for each element
	ElementTags  []int          // Physical group of each element, 0 when untagged
	ElementIDs   []int          // Element IDs from the file
	NodeIDMap    map[int]int    // File node ID to vertex index
	GroupNames   map[int]string // Physical group names from $PhysicalNames

	FormatVersion string
	Skipped       int // Elements of types outside the catalog (points, high order)

	NumElements int
	NumVertices int
}

func NewMesh() *Mesh {
	return &Mesh{
		NodeIDMap:  make(map[int]int),
		GroupNames: make(map[int]string),
	}
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".msh":
		file, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return ReadGmsh22(file)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

func (m *Mesh) AddNode(nodeID int, coords []float64) {
	var c [3]float64
	copy(c[:], coords)
	m.NodeIDMap[nodeID] = len(m.Vertices)
	m.Vertices = append(m.Vertices, c[:])
	m.NumVertices = len(m.Vertices)
}

func (m *Mesh) AddElement(elemID int, kind element.Kind, tags []int, nodeIDs []int) error {
	np, err := element.NodeCount(kind)
	if err != nil {
		return err
	}
	if len(nodeIDs) != np {
		return fmt.Errorf("element %d: %s expects %d nodes, got %d", elemID, kind, np, len(nodeIDs))
	}
	verts := make([]int, np)
	for i, id := range nodeIDs {
		v, ok := m.NodeIDMap[id]
		if !ok {
			return fmt.Errorf("element %d references unknown node %d", elemID, id)
		}
		verts[i] = v
	}
	tag := 0
	if len(tags) > 0 {
		tag = tags[0]
	}
	m.Elements = append(m.Elements, verts)
	m.ElementTypes = append(m.ElementTypes, kind)
	m.ElementTags = append(m.ElementTags, tag)
	m.ElementIDs = append(m.ElementIDs, elemID)
	m.NumElements = len(m.Elements)
	return nil
}

// ElementNodes returns the physical node coordinates of element e
func (m *Mesh) ElementNodes(e int) (nodes []jacobian.Point3) {
	nodes = make([]jacobian.Point3, len(m.Elements[e]))
	for i, v := range m.Elements[e] {
		copy(nodes[i][:], m.Vertices[v])
	}
	return
}

// MaxDim is the highest intrinsic dimension among the elements
func (m *Mesh) MaxDim() (dim int) {
	for _, k := range m.ElementTypes {
		if d, _ := element.Dim(k); d > dim {
			dim = d
		}
	}
	return
}

// BatchElements collects the elements of intrinsic dimension dim (all elements
// when dim < 1) for an assembly pass; index maps each back to its mesh element
func (m *Mesh) BatchElements(dim int) (elems []quaddata.Element, index []int) {
	for e, k := range m.ElementTypes {
		if d, _ := element.Dim(k); dim > 0 && d != dim {
			continue
		}
		elems = append(elems, quaddata.Element{Kind: k, Nodes: m.ElementNodes(e)})
		index = append(index, e)
	}
	return
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Vertices: %d\n", m.NumVertices)
	fmt.Printf("  Elements: %d\n", m.NumElements)
	if m.Skipped > 0 {
		fmt.Printf("  Skipped:  %d\n", m.Skipped)
	}
	typeCounts := make(map[element.Kind]int)
	for _, t := range m.ElementTypes {
		typeCounts[t]++
	}
	fmt.Printf("  Element types:\n")
	for _, k := range element.Kinds {
		if count := typeCounts[k]; count > 0 {
			fmt.Printf("    %s: %d\n", k, count)
		}
	}
}
