package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/sequencer"
)

type ExportData struct {
	Sequence string                 `json:"sequence"`
	Dt       float64                `json:"dt"`
	Duration float64                `json:"duration"`
	Steps    int                    `json:"steps"`
	Loops    int                    `json:"loops"`
	Times    []float64              `json:"times"`
	Views    []string               `json:"views"`
	Fades    []float64              `json:"fades"`
	Tracks   map[string][][]float64 `json:"tracks"`
	Events   []sequencer.Fired      `json:"events"`
	Metrics  map[string]float64     `json:"metrics"`
}

// NewExportData flattens a bake into per-entity position tracks.
func NewExportData(cfg bake.Config, result *bake.Result) ExportData {
	data := ExportData{
		Sequence: result.Sequence,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Steps:    result.StepsTaken,
		Loops:    result.Loops,
		Times:    make([]float64, len(result.Frames)),
		Views:    make([]string, len(result.Frames)),
		Fades:    make([]float64, len(result.Frames)),
		Tracks:   make(map[string][][]float64),
		Events:   result.Events,
		Metrics:  result.Metrics,
	}
	if data.Events == nil {
		data.Events = []sequencer.Fired{}
	}

	for i, f := range result.Frames {
		data.Times[i] = f.Time
		data.Views[i] = f.View
		data.Fades[i] = f.Fade
	}
	for _, name := range result.Entities() {
		track := result.Track(name)
		rows := make([][]float64, len(track))
		for i, p := range track {
			rows[i] = []float64{p[0], p[1], p[2]}
		}
		data.Tracks[name] = rows
	}
	return data
}

func ExportJSON(path string, cfg bake.Config, result *bake.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, cfg, result)
}

func ExportJSONStdout(cfg bake.Config, result *bake.Result) error {
	return WriteJSON(os.Stdout, cfg, result)
}

func WriteJSON(w io.Writer, cfg bake.Config, result *bake.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(cfg, result))
}
