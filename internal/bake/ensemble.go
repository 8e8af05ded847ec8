package bake

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/seqsim/internal/fixture"
)

// Job is one bake of an ensemble.
type Job struct {
	Name    string
	Fixture *fixture.Fixture
	Config  Config
}

// Ensemble bakes independent jobs concurrently. Each job gets its own
// scene, sequencer and metric set.
type Ensemble struct {
	jobs    []Job
	metrics func(Job) []Metric
	limit   int
	log     *slog.Logger
}

// NewEnsemble bakes jobs with the metrics returned for each job, if any.
func NewEnsemble(jobs []Job, metrics func(Job) []Metric) *Ensemble {
	return &Ensemble{
		jobs:    jobs,
		metrics: metrics,
		limit:   runtime.NumCPU(),
		log:     slog.New(slog.DiscardHandler),
	}
}

func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

func (e *Ensemble) SetLogger(l *slog.Logger) {
	if l != nil {
		e.log = l
	}
}

// Run returns results in job order. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i, job := range e.jobs {
		g.Go(func() error {
			b := New(job.Fixture)
			b.SetLogger(e.log.With("job", job.Name))
			if e.metrics != nil {
				for _, m := range e.metrics(job) {
					b.AddMetric(m)
				}
			}
			res, err := b.Run(ctx, job.Config)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
