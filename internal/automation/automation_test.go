package automation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/seqsim/internal/catalog"
	"github.com/san-kum/seqsim/internal/storage"
)

func TestLoadBatch(t *testing.T) {
	batch, err := LoadBatch("testdata/batch.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if batch.Name != "nightly" {
		t.Errorf("expected name nightly, got %s", batch.Name)
	}
	if len(batch.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(batch.Steps))
	}
	if batch.Steps[1].Sweep == nil || batch.Steps[1].Sweep.Param != "rate" {
		t.Errorf("expected a rate sweep on step 2")
	}
}

func TestRunBatch(t *testing.T) {
	batch, err := LoadBatch("testdata/batch.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	st := storage.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	outcomes, err := NewRunner(catalog.NewRegistry(), st).Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(outcomes))
	}

	wantJobs := []string{"linear", "events[rate=1]", "events[rate=2]", "flyby"}
	for i, want := range wantJobs {
		if outcomes[i].Job != want {
			t.Errorf("outcome %d: expected job %s, got %s", i, want, outcomes[i].Job)
		}
		if outcomes[i].RunID == "" {
			t.Errorf("outcome %d: expected a saved run", i)
		}
	}

	if got := outcomes[0].Result.Metrics["path_length:cube"]; math.Abs(got-10) > 1e-6 {
		t.Errorf("expected cube path length 10, got %f", got)
	}
	if outcomes[0].Config.Settings.RewindOnPlay != true {
		t.Error("expected preview preset settings")
	}
	for _, o := range outcomes[1:3] {
		if got := o.Result.Metrics["event_count"]; got != 4 {
			t.Errorf("%s: expected 4 events, got %f", o.Job, got)
		}
	}
	if outcomes[2].Config.Settings.Rate != 2 {
		t.Errorf("expected rate 2 on the second sweep job, got %f", outcomes[2].Config.Settings.Rate)
	}
	if outcomes[3].Config.Dt != 0.25 {
		t.Errorf("expected dt 0.25, got %f", outcomes[3].Config.Dt)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 4 {
		t.Errorf("expected 4 stored runs, got %d", len(runs))
	}
}

func TestRunWithoutStore(t *testing.T) {
	batch := &Batch{Steps: []BatchStep{{Sequence: "linear", Dt: 0.5}}}
	outcomes, err := NewRunner(catalog.NewRegistry(), nil).Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if outcomes[0].RunID != "" {
		t.Errorf("expected no run id, got %s", outcomes[0].RunID)
	}
	if len(outcomes[0].Result.Frames) != 9 {
		t.Errorf("expected 9 frames, got %d", len(outcomes[0].Result.Frames))
	}
}

func TestBatchErrors(t *testing.T) {
	tests := []struct {
		name string
		step BatchStep
		want error
	}{
		{"no source", BatchStep{}, ErrNoSource},
		{"bad param", BatchStep{Sequence: "linear", Sweep: &Sweep{Param: "gravity", Min: 0, Max: 1, Steps: 2}}, ErrUnknownParam},
		{"one step", BatchStep{Sequence: "linear", Sweep: &Sweep{Param: "rate", Steps: 1}}, ErrSweepSteps},
	}
	r := NewRunner(catalog.NewRegistry(), nil)
	for _, tt := range tests {
		_, err := r.Run(context.Background(), &Batch{Steps: []BatchStep{tt.step}})
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}

	if _, err := r.Run(context.Background(), &Batch{Steps: []BatchStep{{Sequence: "linear", Preset: "nope"}}}); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestSweepValues(t *testing.T) {
	vals, err := (&Sweep{Min: 0.5, Max: 2, Steps: 4}).Values()
	if err != nil {
		t.Fatalf("values failed: %v", err)
	}
	want := []float64{0.5, 1, 1.5, 2}
	for i := range want {
		if math.Abs(vals[i]-want[i]) > 1e-9 {
			t.Errorf("value %d: expected %f, got %f", i, want[i], vals[i])
		}
	}
}
