package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	ID        string             `json:"id"`
	Seed      int64              `json:"seed"`
	FrameDt   float64            `json:"frame_dt"`
	Substeps  int                `json:"substeps"`
	Frames    int                `json:"frames"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
	Samples   []ExportSample     `json:"samples"`
}

type ExportSample struct {
	Frame         int     `json:"frame"`
	Time          float64 `json:"time"`
	Particles     int     `json:"particles"`
	MeanSpeed     float64 `json:"mean_speed"`
	KineticEnergy float64 `json:"kinetic_energy"`
	MaxOverlap    float64 `json:"max_overlap"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, samples []FrameSample) error {
	data := ExportData{
		ID:        meta.ID,
		Seed:      meta.Seed,
		FrameDt:   meta.FrameDt,
		Substeps:  meta.Substeps,
		Frames:    meta.Frames,
		Particles: meta.Particles,
		Metrics:   meta.Metrics,
		Samples:   make([]ExportSample, len(samples)),
	}
	for i, s := range samples {
		data.Samples[i] = ExportSample{
			Frame:         s.Frame,
			Time:          s.Time,
			Particles:     s.Particles,
			MeanSpeed:     s.MeanSpeed,
			KineticEnergy: s.KineticEnergy,
			MaxOverlap:    s.MaxOverlap,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportCSV(out io.Writer, samples []FrameSample) error {
	w := csv.NewWriter(out)

	if err := w.Write(frameHeader); err != nil {
		return err
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
			return err
		}
	}
	w.Flush()
	return w.Error()
}
