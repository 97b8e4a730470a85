package quaddata

import (
	"errors"

	"github.com/notargets/quadfe/element"
	"github.com/notargets/quadfe/jacobian"
	"github.com/notargets/quadfe/quadrature"
	"github.com/notargets/quadfe/utils"
	"go.uber.org/zap"
)

// Assembler materializes QuadData records for physical elements. It holds no
// mutable state of its own; the rule cache is the only shared resource, so one
// Assembler may be used from many goroutines.
type Assembler struct {
	Rules  *quadrature.Cache // nil selects quadrature.Default
	Mapper jacobian.Mapper
	// AllowInverted keeps elements with negative detJ instead of rejecting them,
	// their records carry the negative determinant
	AllowInverted bool
	Logger        *zap.Logger
}

func NewAssembler() *Assembler {
	return &Assembler{Rules: quadrature.Default}
}

var defaultAssembler = NewAssembler()

// Assemble computes the records of one element with the default Assembler
func Assemble(k element.Kind, nodes []jacobian.Point3, order int) ([]QuadData, error) {
	return defaultAssembler.Assemble(k, nodes, order)
}

func (as *Assembler) rules() *quadrature.Cache {
	if as.Rules == nil {
		return quadrature.Default
	}
	return as.Rules
}

func (as *Assembler) logger() *zap.Logger { return utils.OrNop(as.Logger) }

// Assemble returns one record per point of the (k, order) rule. Configuration
// errors (unknown kind, wrong node count, unsupported order) are returned as is;
// a degenerate or inverted element yields an *ElementError and no records.
func (as *Assembler) Assemble(k element.Kind, nodes []jacobian.Point3, order int) (qds []QuadData, err error) {
	var rule *quadrature.Rule
	if rule, err = as.rules().Rule(k, order); err != nil {
		return
	}
	qds = make([]QuadData, rule.Len())
	for q, xi := range rule.Points {
		var (
			N  []float64
			dN [][]float64
			mp *jacobian.Mapping
		)
		if N, dN, err = element.EvaluateBasis(k, xi); err != nil {
			return nil, err
		}
		mp, err = as.Mapper.Map(k, nodes, N, dN)
		if err != nil {
			if !IsGeometric(err) {
				return nil, err
			}
			if !(as.AllowInverted && errors.Is(err, jacobian.ErrInvertedElement)) {
				return nil, newElementError(k, err)
			}
			err = nil
		}
		qds[q] = QuadData{
			W:         rule.Weights[q],
			P:         mp.X,
			Shapes:    N,
			DerShapes: mp.DerShapes,
			J:         mp.J,
			DetJ:      mp.DetJ,
		}
	}
	return
}
