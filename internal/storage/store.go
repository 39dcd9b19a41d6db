// Package storage persists per-run aggregates: run metadata plus a CSV
// of per-frame samples. The live particle state itself is never
// persisted; the process owns it for its lifetime.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
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
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FrameDt   float64            `json:"frame_dt"`
	Substeps  int                `json:"substeps"`
	Frames    int                `json:"frames"`
	Particles int                `json:"particles"`
	Spatial   bool               `json:"spatial"`
	Metrics   map[string]float64 `json:"metrics"`
}

// FrameSample is one row of per-frame aggregates.
type FrameSample struct {
	Frame         int
	Time          float64
	Particles     int
	MeanSpeed     float64
	KineticEnergy float64
	MaxOverlap    float64
}

var frameHeader = []string{"frame", "time", "particles", "mean_speed", "kinetic_energy", "max_overlap"}

func (s *Store) Save(meta RunMetadata, samples []FrameSample) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range samples {
		row := []string{
			strconv.Itoa(f.Frame),
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			strconv.Itoa(f.Particles),
			strconv.FormatFloat(f.MeanSpeed, 'f', 6, 64),
			strconv.FormatFloat(f.KineticEnergy, 'f', 6, 64),
			strconv.FormatFloat(f.MaxOverlap, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]FrameSample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []FrameSample{}, nil
	}

	samples := make([]FrameSample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 6 {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		t, _ := strconv.ParseFloat(record[1], 64)
		particles, _ := strconv.Atoi(record[2])
		mean, _ := strconv.ParseFloat(record[3], 64)
		kinetic, _ := strconv.ParseFloat(record[4], 64)
		overlap, _ := strconv.ParseFloat(record[5], 64)

		samples = append(samples, FrameSample{
			Frame:         frame,
			Time:          t,
			Particles:     particles,
			MeanSpeed:     mean,
			KineticEnergy: kinetic,
			MaxOverlap:    overlap,
		})
	}

	return samples, nil
}
