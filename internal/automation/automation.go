package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/catalog"
	"github.com/san-kum/seqsim/internal/config"
	"github.com/san-kum/seqsim/internal/fixture"
	"github.com/san-kum/seqsim/internal/metrics"
	"github.com/san-kum/seqsim/internal/storage"
)

var (
	ErrNoSource     = errors.New("automation: step needs a sequence or a file")
	ErrUnknownParam = errors.New("automation: unknown sweep parameter")
	ErrSweepSteps   = errors.New("automation: sweep needs at least two steps")
)

// Batch is a list of bakes run together.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Parallel    int         `yaml:"parallel"`
	Steps       []BatchStep `yaml:"steps"`
}

// BatchStep bakes one sequence, either from the catalog or from a fixture
// file. Zero fields fall back to the preset.
type BatchStep struct {
	Sequence string  `yaml:"sequence"`
	File     string  `yaml:"file"`
	Preset   string  `yaml:"preset"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Rate     float64 `yaml:"rate"`
	Loop     *bool   `yaml:"loop"`
	Sweep    *Sweep  `yaml:"sweep"`
}

// Sweep expands a step into evenly spaced values of one playback parameter.
type Sweep struct {
	Param string  `yaml:"param"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

// Outcome is one finished bake. RunID is empty when nothing was saved.
type Outcome struct {
	Job    string
	Preset string
	Config bake.Config
	Result *bake.Result
	RunID  string
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBatch(data)
}

func ParseBatch(data []byte) (*Batch, error) {
	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Runner resolves batch steps and bakes them.
type Runner struct {
	registry *catalog.Registry
	store    *storage.Store
	log      *slog.Logger
}

// NewRunner saves into st when it is non-nil.
func NewRunner(registry *catalog.Registry, st *storage.Store) *Runner {
	return &Runner{registry: registry, store: st, log: slog.New(slog.DiscardHandler)}
}

func (r *Runner) SetLogger(l *slog.Logger) {
	if l != nil {
		r.log = l
	}
}

type plan struct {
	job    bake.Job
	preset string
}

// Run bakes every step concurrently and saves the results in step order.
func (r *Runner) Run(ctx context.Context, batch *Batch) ([]Outcome, error) {
	plans, err := r.expand(batch)
	if err != nil {
		return nil, err
	}

	jobs := make([]bake.Job, len(plans))
	for i, p := range plans {
		jobs[i] = p.job
	}

	ens := bake.NewEnsemble(jobs, func(j bake.Job) []bake.Metric { return metrics.Default(j.Fixture.Data) })
	ens.SetLimit(batch.Parallel)
	ens.SetLogger(r.log)

	r.log.Info("batch start", "name", batch.Name, "jobs", len(jobs))
	results, err := ens.Run(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(results))
	for i, res := range results {
		outcomes[i] = Outcome{Job: plans[i].job.Name, Preset: plans[i].preset, Config: plans[i].job.Config, Result: res}
		if r.store == nil {
			continue
		}
		id, err := r.store.Save(plans[i].preset, plans[i].job.Config, res)
		if err != nil {
			return outcomes, fmt.Errorf("save %s: %w", plans[i].job.Name, err)
		}
		outcomes[i].RunID = id
		r.log.Debug("saved", "job", plans[i].job.Name, "id", id)
	}
	return outcomes, nil
}

func (r *Runner) expand(batch *Batch) ([]plan, error) {
	var plans []plan
	for i, step := range batch.Steps {
		ps, err := r.plan(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		plans = append(plans, ps...)
	}
	return plans, nil
}

func (r *Runner) plan(step BatchStep) ([]plan, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", step.Preset)
		}
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	if step.Rate != 0 {
		cfg.Rate = step.Rate
	}
	if step.Loop != nil {
		cfg.Loop = *step.Loop
	}
	if step.Duration > 0 {
		cfg.DurationOverride = step.Duration
	}

	fx, err := r.source(step)
	if err != nil {
		return nil, err
	}
	name := fx.Data.Name

	if step.Sweep == nil {
		return []plan{{job: job(name, fx, cfg), preset: step.Preset}}, nil
	}

	values, err := step.Sweep.Values()
	if err != nil {
		return nil, err
	}
	plans := make([]plan, 0, len(values))
	for i, v := range values {
		c := *cfg
		if err := setParam(&c, step.Sweep.Param, v); err != nil {
			return nil, err
		}
		// each job needs its own copy of the sequence
		if i > 0 {
			if fx, err = r.source(step); err != nil {
				return nil, err
			}
		}
		label := fmt.Sprintf("%s[%s=%.4g]", name, step.Sweep.Param, v)
		plans = append(plans, plan{job: job(label, fx, &c), preset: step.Preset})
	}
	return plans, nil
}

func (r *Runner) source(step BatchStep) (*fixture.Fixture, error) {
	switch {
	case step.Sequence != "":
		return r.registry.Get(step.Sequence)
	case step.File != "":
		return fixture.Load(step.File)
	default:
		return nil, ErrNoSource
	}
}

func job(name string, fx *fixture.Fixture, cfg *config.Config) bake.Job {
	return bake.Job{
		Name:    name,
		Fixture: fx,
		Config: bake.Config{
			Dt:       cfg.Dt,
			Duration: cfg.BakeDuration(fx.Data.Length()),
			Settings: cfg.Playback(),
		},
	}
}

func setParam(c *config.Config, param string, v float64) error {
	switch param {
	case "rate":
		c.Rate = v
	case "dt":
		c.Dt = v
	case "boundary_epsilon":
		c.BoundaryEpsilon = v
	case "lookahead":
		c.Lookahead = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, param)
	}
	return nil
}

// Values returns the swept values from Min to Max inclusive.
func (s *Sweep) Values() ([]float64, error) {
	if s.Steps < 2 {
		return nil, ErrSweepSteps
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)
	out := make([]float64, s.Steps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out, nil
}
