package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/sequencer"
	"github.com/san-kum/seqsim/internal/xform"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	eventsFile   = "events.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Sequence  string             `json:"sequence"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Events    int                `json:"events"`
	Loops     int                `json:"loops"`
	Metrics   map[string]float64 `json:"metrics"`
}

// SampleRow is one line of samples.csv.
type SampleRow struct {
	Time     float64
	Position float64
	Entity   string
	Location mgl64.Vec3
	Rotation xform.Rotator
	Visible  bool
}

var sampleHeader = []string{"time", "position", "entity", "x", "y", "z", "pitch", "yaw", "roll", "visible"}
var eventHeader = []string{"time", "group", "track", "name"}

func (s *Store) Save(preset string, cfg bake.Config, result *bake.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", result.Sequence, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Sequence:  result.Sequence,
		Preset:    preset,
		Timestamp: time.Now(),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Frames:    len(result.Frames),
		Events:    len(result.Events),
		Loops:     result.Loops,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, samplesFile), sampleHeader, sampleRecords(result)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, eventsFile), eventHeader, eventRecords(result)); err != nil {
		return "", err
	}

	return runID, nil
}

func sampleRecords(result *bake.Result) [][]string {
	rows := make([][]string, 0, len(result.Frames))
	for _, f := range result.Frames {
		for _, smp := range f.Samples {
			rows = append(rows, []string{
				formatFloat(f.Time),
				formatFloat(f.Position),
				smp.Entity,
				formatFloat(smp.Position[0]),
				formatFloat(smp.Position[1]),
				formatFloat(smp.Position[2]),
				formatFloat(smp.Rotation.Pitch),
				formatFloat(smp.Rotation.Yaw),
				formatFloat(smp.Rotation.Roll),
				strconv.FormatBool(smp.Visible),
			})
		}
	}
	return rows
}

func eventRecords(result *bake.Result) [][]string {
	rows := make([][]string, 0, len(result.Events))
	for _, ev := range result.Events {
		rows = append(rows, []string{formatFloat(ev.Time), ev.Group, ev.Track, ev.Name})
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns saved runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]SampleRow, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}

	rows := make([]SampleRow, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(sampleHeader) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", samplesFile, i+2, len(sampleHeader), len(rec))
		}
		var nums [8]float64
		for j, field := range []string{rec[0], rec[1], rec[3], rec[4], rec[5], rec[6], rec[7], rec[8]} {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+2, err)
			}
			nums[j] = v
		}
		visible, err := strconv.ParseBool(rec[9])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+2, err)
		}
		rows = append(rows, SampleRow{
			Time:     nums[0],
			Position: nums[1],
			Entity:   rec[2],
			Location: mgl64.Vec3{nums[2], nums[3], nums[4]},
			Rotation: xform.Rotator{Pitch: nums[5], Yaw: nums[6], Roll: nums[7]},
			Visible:  visible,
		})
	}
	return rows, nil
}

func (s *Store) LoadEvents(runID string) ([]sequencer.Fired, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, eventsFile))
	if err != nil {
		return nil, err
	}

	events := make([]sequencer.Fired, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(eventHeader) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", eventsFile, i+2, len(eventHeader), len(rec))
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", eventsFile, i+2, err)
		}
		events = append(events, sequencer.Fired{Time: t, Group: rec[1], Track: rec[2], Name: rec[3]})
	}
	return events, nil
}

// readCSV returns every record after the header.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}
