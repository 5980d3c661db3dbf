package app

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"likescan/domain/scan"
)

// Batch1DItem pairs a named 1D scan with its evaluation options
type Batch1DItem struct {
	Name    string
	Scan    scan.Scan1D
	Options Options1D
}

// Batch1DOutcome captures one scan's evaluation or its failure. A failed
// scan never aborts the rest of the batch.
type Batch1DOutcome struct {
	Name       string
	Evaluation *Evaluation1D
	Err        error
}

// Batch2DItem pairs a named 2D scan with its evaluation options
type Batch2DItem struct {
	Name    string
	Scan    scan.Scan2D
	Options Options2D
}

// Batch2DOutcome captures one 2D scan's evaluation or its failure
type Batch2DOutcome struct {
	Name       string
	Evaluation *Evaluation2D
	Err        error
}

// BatchEvaluator runs many independent scan evaluations concurrently. Each
// evaluation owns its inputs and outputs, so no interpolator state is shared
// across goroutines.
type BatchEvaluator struct {
	evaluator *Evaluator
	workers   int
}

// NewBatchEvaluator creates a batch runner; workers <= 0 selects GOMAXPROCS
func NewBatchEvaluator(evaluator *Evaluator, workers int) *BatchEvaluator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &BatchEvaluator{evaluator: evaluator, workers: workers}
}

// Run1D evaluates all items and returns one outcome per item, in order
func (b *BatchEvaluator) Run1D(ctx context.Context, items []Batch1DItem) []Batch1DOutcome {
	outcomes := make([]Batch1DOutcome, len(items))

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, item := range items {
		g.Go(func() error {
			ev, err := b.evaluator.Evaluate1D(ctx, item.Scan, item.Options)
			outcomes[i] = Batch1DOutcome{Name: item.Name, Evaluation: ev, Err: err}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // per-scan errors live in the outcomes

	return outcomes
}

// Run2D evaluates all items and returns one outcome per item, in order
func (b *BatchEvaluator) Run2D(ctx context.Context, items []Batch2DItem) []Batch2DOutcome {
	outcomes := make([]Batch2DOutcome, len(items))

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, item := range items {
		g.Go(func() error {
			ev, err := b.evaluator.Evaluate2D(ctx, item.Scan, item.Options)
			outcomes[i] = Batch2DOutcome{Name: item.Name, Evaluation: ev, Err: err}
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	return outcomes
}
