package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/orrery/internal/physics"
)

type ExportData struct {
	RunMetadata
	Times   []float64        `json:"times"`
	Samples [][]exportSample `json:"samples"`
}

// exportVector writes NaN and Inf coordinates as null.
type exportVector struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type exportSample struct {
	Position exportVector `json:"position"`
	Velocity exportVector `json:"velocity"`
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toExport(v physics.Vector) exportVector {
	return exportVector{X: finitePtr(v.X), Y: finitePtr(v.Y)}
}

// ExportJSON writes a run's metadata and trajectory as one document.
func ExportJSON(w io.Writer, meta *RunMetadata, traj *Trajectory) error {
	m := *meta
	var dropped []string
	m.Metrics, dropped = finiteMetrics(meta.Metrics)
	m.NonFinite = append(append([]string(nil), meta.NonFinite...), dropped...)

	data := ExportData{
		RunMetadata: m,
		Times:       traj.Times,
		Samples:     make([][]exportSample, len(traj.Samples)),
	}
	for i, row := range traj.Samples {
		out := make([]exportSample, len(row))
		for j, s := range row {
			out[j] = exportSample{Position: toExport(s.Position), Velocity: toExport(s.Velocity)}
		}
		data.Samples[i] = out
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
