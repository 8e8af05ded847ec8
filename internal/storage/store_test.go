package storage

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/catalog"
	"github.com/san-kum/seqsim/internal/sequencer"
)

func bakeFlyby(t *testing.T) (bake.Config, *bake.Result) {
	t.Helper()
	cfg := bake.Config{Dt: 0.5, Duration: 10, Settings: sequencer.DefaultSettings()}
	result, err := bake.New(catalog.Flyby()).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("bake failed: %v", err)
	}
	result.Metrics["cut_count"] = 2
	return cfg, result
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result := bakeFlyby(t)
	runID, err := st.Save("cinematic", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "flyby_") || len(runID) != len("flyby_")+8 {
		t.Errorf("expected id flyby_<8 chars>, got '%s'", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Sequence != "flyby" {
		t.Errorf("expected sequence 'flyby', got '%s'", meta.Sequence)
	}
	if meta.Preset != "cinematic" {
		t.Errorf("expected preset 'cinematic', got '%s'", meta.Preset)
	}
	if meta.Frames != len(result.Frames) {
		t.Errorf("expected %d frames, got %d", len(result.Frames), meta.Frames)
	}
	if meta.Metrics["cut_count"] != 2 {
		t.Errorf("expected cut_count 2, got %f", meta.Metrics["cut_count"])
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}

	want := len(result.Frames) * len(result.Entities())
	if len(samples) != want {
		t.Fatalf("expected %d samples, got %d", want, len(samples))
	}

	for _, row := range samples {
		if row.Entity != "drone" || row.Time != 5 {
			continue
		}
		orig, _ := result.Frames[10].Sample("drone")
		if math.Abs(row.Location[0]-orig.Position[0]) > 1e-6 {
			t.Errorf("expected drone x %f, got %f", orig.Position[0], row.Location[0])
		}
	}

	events, err := st.LoadEvents(runID)
	if err != nil {
		t.Fatalf("load events failed: %v", err)
	}

	if len(events) != 1 || events[0].Name != "pass" || events[0].Group != "beacon" {
		t.Errorf("expected the pass event from beacon, got %v", events)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg, result := bakeFlyby(t)
	for range 2 {
		if _, err := st.Save("", cfg, result); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("expected distinct run ids")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result := bakeFlyby(t)
	runID, err := st.Save("", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, samplesFile, eventsFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadSamplesRejectsShortRows(t *testing.T) {
	tmpDir := t.TempDir()
	runDir := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	body := strings.Join(sampleHeader, ",") + "\n0,0,cube,1,2\n"
	if err := os.WriteFile(filepath.Join(runDir, samplesFile), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(tmpDir).LoadSamples("broken"); err == nil {
		t.Error("expected error for short row")
	}
}
