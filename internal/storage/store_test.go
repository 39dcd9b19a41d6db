package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func testSamples() []FrameSample {
	return []FrameSample{
		{Frame: 0, Time: 0, Particles: 10, MeanSpeed: 0, KineticEnergy: 0, MaxOverlap: 0},
		{Frame: 1, Time: 1.0 / 60, Particles: 12, MeanSpeed: 3.5, KineticEnergy: 61.25, MaxOverlap: 0.2},
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	meta := RunMetadata{
		Seed:      42,
		FrameDt:   1.0 / 60,
		Substeps:  8,
		Frames:    2,
		Particles: 12,
		Metrics:   map[string]float64{"mean_speed": 3.5},
	}

	runID, err := st.Save(meta, testSamples())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Substeps != 8 || loaded.Particles != 12 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}

	samples, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("LoadFrames failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if samples[1].Particles != 12 || math.Abs(samples[1].MeanSpeed-3.5) > 1e-9 {
		t.Errorf("sample mismatch: %+v", samples[1])
	}
}

func TestStore_List(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	if _, err := st.Save(RunMetadata{Frames: 1}, testSamples()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs, want 1", len(runs))
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	st := New("/nonexistent/path/for/test")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("List on missing dir should not fail: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs, want 0", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "run_1", Substeps: 8, Particles: 12}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, testSamples()); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export not valid json: %v", err)
	}
	if data.ID != "run_1" || len(data.Samples) != 2 {
		t.Errorf("export mismatch: %+v", data)
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, testSamples()); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "frame,time,particles") {
		t.Errorf("unexpected header: %s", lines[0])
	}
}
