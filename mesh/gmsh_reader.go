package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/quadfe/element"
)

// gmshElementType2_2 maps the first order Gmsh 2.2 element types onto the catalog,
// Gmsh node numbering matches the reference node order of each kind
var gmshElementType2_2 = map[int]element.Kind{
	1: element.Line,
	2: element.Triangle,
	3: element.Quadrangle,
	4: element.Tetrahedron,
	5: element.Hexahedron,
}

// ReadGmsh22 reads an ASCII Gmsh 2.2 mesh. Elements whose type is not in the
// catalog (points, prisms, pyramids, high order) are counted in Skipped.
func ReadGmsh22(r io.Reader) (*Mesh, error) {
	var (
		mesh    = NewMesh()
		scanner = bufio.NewScanner(r)
	)
	// Increase scanner buffer for long element lines
	const maxScanTokenSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue

		case "$MeshFormat":
			if err := readMeshFormat(scanner, mesh); err != nil {
				return nil, err
			}

		case "$PhysicalNames":
			if err := readPhysicalNames(scanner, mesh); err != nil {
				return nil, err
			}

		case "$Nodes":
			if err := readNodes(scanner, mesh); err != nil {
				return nil, err
			}

		case "$Elements":
			if err := readElements(scanner, mesh); err != nil {
				return nil, err
			}

		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				if err := skipSection(scanner, "$End"+line[1:]); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	if mesh.FormatVersion == "" {
		return nil, fmt.Errorf("no $MeshFormat section found")
	}
	return mesh, nil
}

func readMeshFormat(scanner *bufio.Scanner, mesh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}

	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	if !strings.HasPrefix(parts[0], "2") {
		return fmt.Errorf("unsupported Gmsh version: %s", parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported")
	}
	mesh.FormatVersion = parts[0]

	return skipSection(scanner, "$EndMeshFormat")
}

func readPhysicalNames(scanner *bufio.Scanner, mesh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in PhysicalNames")
	}

	numPhysical, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid number of physical names: %w", err)
	}

	for i := 0; i < numPhysical; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in PhysicalNames")
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return fmt.Errorf("invalid physical name entry")
		}

		tag, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid physical tag: %w", err)
		}
		mesh.GroupNames[tag] = strings.Trim(strings.Join(fields[2:], " "), "\"")
	}

	return skipSection(scanner, "$EndPhysicalNames")
}

func readNodes(scanner *bufio.Scanner, mesh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}

	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid number of nodes: %w", err)
	}

	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in Nodes at node %d", i)
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return fmt.Errorf("invalid node entry at line %d", i+1)
		}

		nodeID, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("invalid node ID: %w", err)
		}

		coords := make([]float64, 3)
		for j := 0; j < 3; j++ {
			coords[j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return fmt.Errorf("invalid coordinate of node %d: %w", nodeID, err)
			}
		}

		mesh.AddNode(nodeID, coords)
	}

	return skipSection(scanner, "$EndNodes")
}

func readElements(scanner *bufio.Scanner, mesh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}

	numElems, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid number of elements: %w", err)
	}

	for i := 0; i < numElems; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in Elements at element %d", i)
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return fmt.Errorf("invalid element entry at line %d", i+1)
		}

		ints := make([]int, len(fields))
		for j, f := range fields {
			if ints[j], err = strconv.Atoi(f); err != nil {
				return fmt.Errorf("invalid integer %q in element entry %d", f, i+1)
			}
		}
		elemID, gmshType, numTags := ints[0], ints[1], ints[2]
		if numTags < 0 || 3+numTags > len(ints) {
			return fmt.Errorf("invalid tag count %d for element %d", numTags, elemID)
		}

		kind, ok := gmshElementType2_2[gmshType]
		if !ok {
			mesh.Skipped++
			continue
		}

		tags := ints[3 : 3+numTags]
		if err := mesh.AddElement(elemID, kind, tags, ints[3+numTags:]); err != nil {
			return err
		}
	}

	return skipSection(scanner, "$EndElements")
}

func skipSection(scanner *bufio.Scanner, endTag string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endTag {
			return nil
		}
	}
	return fmt.Errorf("unexpected EOF while looking for %s", endTag)
}
