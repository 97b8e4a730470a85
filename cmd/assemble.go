/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/notargets/quadfe/InputParameters"
	"github.com/notargets/quadfe/jacobian"
	"github.com/notargets/quadfe/mass"
	"github.com/notargets/quadfe/mesh"
	"github.com/notargets/quadfe/quaddata"
	"github.com/notargets/quadfe/quadrature"
	"github.com/notargets/quadfe/rw"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AssemblyJob struct {
	GridFile string
	ICFile   string
	OutFile  string
	Workers  int
}

const exampleJobFile = `
########################################
Title: "Test Case"
QuadratureOrder: 2
RelTol: 1.e-12      # 0 selects the default
AllowInverted: false
Workers: 0          # 0 uses all processors
Dimension: 0        # 0 uses the highest element dimension in the mesh
########################################
`

// AssembleCmd represents the assemble command
var AssembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble quadrature data over every element of a mesh",
	Long: `Reads a Gmsh 2.2 ASCII mesh and a YAML job file, assembles the quadrature
data of every element in parallel and reports rejected elements, the total
measure of the mesh and the total of its consistent mass matrix`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		job := &AssemblyJob{}
		if job.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			return
		}
		if job.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if job.OutFile, err = cmd.Flags().GetString("out"); err != nil {
			return
		}
		job.Workers = viper.GetInt("workers")
		var ap *InputParameters.AssemblyParameters
		if ap, err = processInput(cmd.ErrOrStderr(), job); err != nil {
			return
		}
		return runAssembly(cmd, job, ap)
	},
}

func processInput(errOut io.Writer, job *AssemblyJob) (ap *InputParameters.AssemblyParameters, err error) {
	if len(job.GridFile) == 0 {
		return nil, fmt.Errorf("must supply a grid file (-F, --gridFile) in Gmsh 2.2 ASCII (.msh) format")
	}
	if len(job.ICFile) == 0 {
		fmt.Fprintf(errOut, "Example File:%s\n", exampleJobFile)
		return nil, fmt.Errorf("must supply a job file (-I, --inputConditionsFile) in YAML format")
	}
	if ap, err = InputParameters.ReadFile(job.ICFile); err != nil {
		return
	}
	if job.Workers == 0 {
		job.Workers = ap.Workers
	}
	return
}

func runAssembly(cmd *cobra.Command, job *AssemblyJob, ap *InputParameters.AssemblyParameters) (err error) {
	var (
		out = cmd.OutOrStdout()
		m   *mesh.Mesh
		br  *quaddata.BatchResult
	)
	if m, err = mesh.ReadMeshFile(job.GridFile); err != nil {
		return
	}
	dim := ap.Dimension
	if dim == 0 {
		dim = m.MaxDim()
	}
	elems, index := m.BatchElements(dim)
	logger.Info("mesh read",
		zap.String("file", job.GridFile),
		zap.Int("vertices", m.NumVertices),
		zap.Int("elements", m.NumElements),
		zap.Int("skipped", m.Skipped),
		zap.Int("dimension", dim),
		zap.Int("selected", len(elems)))

	as := &quaddata.Assembler{
		Rules:         quadrature.Default,
		Mapper:        jacobian.Mapper{RelTol: ap.RelTol},
		AllowInverted: ap.AllowInverted,
		Logger:        logger,
	}
	if br, err = as.AssembleMesh(commandContext(cmd), elems, ap.QuadratureOrder, job.Workers); err != nil {
		return
	}

	fmt.Fprintf(out, "%s\n", ap.Title)
	fmt.Fprintf(out, "Elements assembled: %d of %d, quadrature points: %d\n",
		len(elems)-len(br.Failures), len(elems), br.NumPoints())
	for _, f := range br.Failures {
		e := index[f.Elem]
		fmt.Fprintf(out, "  rejected element %d (%s): detJ = %g: %v\n",
			m.ElementIDs[e], f.Kind, f.DetJ, errors.Unwrap(f.Err))
	}
	for _, k := range br.Inverted {
		fmt.Fprintf(out, "  inverted element %d kept\n", m.ElementIDs[index[k]])
	}
	fmt.Fprintf(out, "Total measure = %.15g\n", br.Measure())

	M, err := mass.Consistent(m, index, br)
	if err != nil {
		return
	}
	fmt.Fprintf(out, "Total mass = %.15g\n", mass.Total(M))

	if len(job.OutFile) != 0 {
		if err = writePoints(job.OutFile, m, index, br); err != nil {
			return
		}
		fmt.Fprintf(out, "Elements and quadrature points written to %s\n", job.OutFile)
	}
	return
}

func writePoints(fileName string, m *mesh.Mesh, index []int, br *quaddata.BatchResult) (err error) {
	var file *os.File
	if file, err = os.Create(fileName); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	yw := rw.NewYAMLWriter(file)
	if err = rw.WriteMesh(yw, m, index, br); err != nil {
		return
	}
	if err = rw.WriteBatch(yw, br); err != nil {
		return
	}
	return yw.Close()
}

func init() {
	rootCmd.AddCommand(AssembleCmd)
	AssembleCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in Gmsh 2.2 ASCII (.msh) format")
	AssembleCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML job file with:\n\t- QuadratureOrder\n\t- RelTol, AllowInverted, Workers, Dimension")
	AssembleCmd.Flags().IntP("workers", "w", 0, "number of parallel workers, overrides the job file")
	AssembleCmd.Flags().StringP("out", "o", "", "write the elements and quadrature points as YAML to this file")
	_ = viper.BindPFlag("workers", AssembleCmd.Flags().Lookup("workers"))
}
