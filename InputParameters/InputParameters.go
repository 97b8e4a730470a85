package InputParameters

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML job file
type AssemblyParameters struct {
	Title           string  `yaml:"Title"`
	QuadratureOrder int     `yaml:"QuadratureOrder"`
	RelTol          float64 `yaml:"RelTol"`        // Degeneracy threshold relative to h^dim, 0 selects the default
	AllowInverted   bool    `yaml:"AllowInverted"` // Keep elements with negative detJ
	Workers         int     `yaml:"Workers"`       // 0 selects GOMAXPROCS
	Dimension       int     `yaml:"Dimension"`     // Only elements of this dimension, 0 uses the highest in the mesh
}

func (ap *AssemblyParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ap); err != nil {
		return
	}
	switch {
	case ap.QuadratureOrder < 0:
		err = fmt.Errorf("QuadratureOrder must be non negative, have %d", ap.QuadratureOrder)
	case ap.RelTol < 0:
		err = fmt.Errorf("RelTol must be non negative, have %g", ap.RelTol)
	case ap.Dimension < 0 || ap.Dimension > 3:
		err = fmt.Errorf("Dimension must be 0..3, have %d", ap.Dimension)
	}
	return
}

func ReadFile(fileName string) (ap *AssemblyParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ap = &AssemblyParameters{}
	if err = ap.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return
}

func (ap *AssemblyParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ap.Title)
	fmt.Printf("[%d]\t\t\t\t= Quadrature Order\n", ap.QuadratureOrder)
	fmt.Printf("%8.2e\t\t= RelTol\n", ap.RelTol)
	fmt.Printf("[%v]\t\t\t= Allow Inverted\n", ap.AllowInverted)
	fmt.Printf("[%d]\t\t\t\t= Workers\n", ap.Workers)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ap.Dimension)
}
