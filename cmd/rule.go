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
	"fmt"
	"io"

	"github.com/notargets/quadfe/element"
	"github.com/notargets/quadfe/quadrature"
	"github.com/spf13/cobra"
)

// RuleCmd represents the rule command
var RuleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Print the quadrature rule of an element kind for a requested order",
	Long: `Print the reference points and weights of the smallest rule exact to the
requested polynomial order, e.g.

	quadfe rule --kind Triangle --order 4`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			kindName string
			order    int
			kind     element.Kind
			rule     *quadrature.Rule
		)
		if kindName, err = cmd.Flags().GetString("kind"); err != nil {
			return
		}
		if order, err = cmd.Flags().GetInt("order"); err != nil {
			return
		}
		if kind, err = element.ParseKind(kindName); err != nil {
			return
		}
		if rule, err = quadrature.GenerateRule(kind, order); err != nil {
			return
		}
		printRule(cmd.OutOrStdout(), rule)
		return
	},
}

func printRule(w io.Writer, rule *quadrature.Rule) {
	fmt.Fprintf(w, "%s order %d: degree %d rule, %d points\n",
		rule.Kind, rule.Order, rule.Degree, rule.Len())
	fmt.Fprintf(w, "%4s", "#")
	for d := 0; d < rule.Dim; d++ {
		fmt.Fprintf(w, " %22s", fmt.Sprintf("xi%d", d+1))
	}
	fmt.Fprintf(w, " %22s\n", "weight")
	for q, pt := range rule.Points {
		fmt.Fprintf(w, "%4d", q)
		for _, x := range pt {
			fmt.Fprintf(w, " %22.15e", x)
		}
		fmt.Fprintf(w, " %22.15e\n", rule.Weights[q])
	}
	fmt.Fprintf(w, "Sum of weights = %.15g\n", rule.Sum())
}

func init() {
	rootCmd.AddCommand(RuleCmd)
	RuleCmd.Flags().StringP("kind", "k", "Triangle", "element kind: Line, Triangle, Quadrangle, Tetrahedron, Hexahedron")
	RuleCmd.Flags().IntP("order", "o", 1, "polynomial order the rule must integrate exactly")
}
