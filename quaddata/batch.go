package quaddata

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/notargets/quadfe/element"
	"github.com/notargets/quadfe/jacobian"
	"github.com/notargets/quadfe/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Element is one physical element of a mesh pass, nodes in reference node order
type Element struct {
	Kind  element.Kind
	Nodes []jacobian.Point3
}

// Failure identifies an element rejected by the pass
type Failure struct {
	Elem int
	Kind element.Kind
	DetJ float64
	Err  error
}

type BatchResult struct {
	Order    int
	Data     [][]QuadData // indexed like the input elements, nil where an element failed
	Failures []Failure    // ascending element index
	Inverted []int        // elements kept with negative detJ (AllowInverted)
}

// Measure is the total length, area or volume of the accepted elements
func (br *BatchResult) Measure() (m float64) {
	for _, qds := range br.Data {
		m += Measure(qds)
	}
	return
}

func (br *BatchResult) NumPoints() (n int) {
	for _, qds := range br.Data {
		n += len(qds)
	}
	return
}

// AssembleMesh runs Assemble over every element using workers goroutines, each
// owning a contiguous bucket of elements (workers < 1 selects GOMAXPROCS). The
// rules needed are populated before the fan out, after which the pass shares
// nothing mutable. A geometric failure is recorded and its element skipped; a
// configuration error, or cancellation of ctx, aborts the pass.
func (as *Assembler) AssembleMesh(ctx context.Context, elems []Element, order, workers int) (br *BatchResult, err error) {
	var (
		logger = as.logger()
		seen   = make(map[element.Kind]bool)
	)
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(elems) {
		workers = max(len(elems), 1)
	}
	for _, e := range elems {
		if seen[e.Kind] {
			continue
		}
		seen[e.Kind] = true
		if _, err = as.rules().Rule(e.Kind, order); err != nil {
			return nil, err
		}
	}

	br = &BatchResult{
		Order: order,
		Data:  make([][]QuadData, len(elems)),
	}
	var (
		pm       = utils.NewPartitionMap(workers, len(elems))
		failures = make([][]Failure, workers)
		inverted = make([][]int, workers)
	)
	g, gctx := errgroup.WithContext(ctx)
	for bn := 0; bn < workers; bn++ {
		bn := bn
		g.Go(func() error {
			kMin, kMax := pm.GetBucketRange(bn)
			for k := kMin; k < kMax; k++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				qds, err := as.Assemble(elems[k].Kind, elems[k].Nodes, order)
				if err != nil {
					var ee *ElementError
					if !errors.As(err, &ee) {
						return fmt.Errorf("element %d: %w", k, err)
					}
					ee.Elem = k
					failures[bn] = append(failures[bn], Failure{Elem: k, Kind: ee.Kind, DetJ: ee.DetJ, Err: ee})
					continue
				}
				for q := range qds {
					if qds[q].DetJ < 0 {
						inverted[bn] = append(inverted[bn], k)
						break
					}
				}
				br.Data[k] = qds
			}
			logger.Debug("worker done",
				zap.Int("worker", bn),
				zap.Int("elements", pm.GetBucketDimension(bn)),
				zap.Int("failures", len(failures[bn])))
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	// Buckets are contiguous and ascending, concatenation keeps index order
	for bn := 0; bn < workers; bn++ {
		br.Failures = append(br.Failures, failures[bn]...)
		br.Inverted = append(br.Inverted, inverted[bn]...)
	}
	for _, f := range br.Failures {
		worker, _, _ := pm.GetBucket(f.Elem)
		logger.Warn("element rejected",
			zap.Int("elem", f.Elem),
			zap.Int("worker", worker),
			zap.Stringer("kind", f.Kind),
			zap.Float64("detJ", f.DetJ),
			zap.Error(f.Err))
	}
	for _, k := range br.Inverted {
		logger.Warn("inverted element kept", zap.Int("elem", k), zap.Stringer("kind", elems[k].Kind))
	}
	logger.Debug("assembly pass complete",
		zap.Int("elements", len(elems)),
		zap.Int("workers", workers),
		zap.Int("failures", len(br.Failures)),
		zap.Int("points", br.NumPoints()))
	return
}
