package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/orrery/internal/physics"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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
	System    string             `json:"system"`
	Timestamp time.Time          `json:"timestamp"`
	FPS       int                `json:"fps"`
	Frames    int                `json:"frames"`
	Elapsed   float64            `json:"elapsed"`
	Bodies    []string           `json:"bodies"`
	Colors    []string           `json:"colors,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`

	// NonFinite names metrics that were NaN or Inf when saved. JSON has no
	// encoding for them, so they are left out of Metrics.
	NonFinite []string `json:"non_finite,omitempty"`
}

func runID(system string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(system), "-"))
	if slug == "" {
		slug = "run"
	}
	return fmt.Sprintf("%s_%s", slug, uuid.NewString()[:8])
}

func finiteMetrics(in map[string]float64) (map[string]float64, []string) {
	out := make(map[string]float64, len(in))
	var dropped []string
	for name, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			dropped = append(dropped, name)
			continue
		}
		out[name] = v
	}
	sort.Strings(dropped)
	return out, dropped
}

// Save writes a new run directory and returns its ID. meta.ID and
// meta.Timestamp are filled in. A failed save leaves no directory behind.
func (s *Store) Save(meta RunMetadata, traj *Trajectory) (string, error) {
	meta.ID = runID(meta.System)
	meta.Timestamp = time.Now()
	meta.Bodies = traj.Bodies
	meta.Colors = traj.Colors
	meta.Metrics, meta.NonFinite = finiteMetrics(meta.Metrics)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeRun(runDir, &meta, traj); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return meta.ID, nil
}

func writeRun(runDir string, meta *RunMetadata, traj *Trajectory) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), append(data, '\n'), 0644); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return err
	}

	if err := WriteCSV(csvFile, traj); err != nil {
		csvFile.Close()
		return fmt.Errorf("write trajectory: %w", err)
	}
	return csvFile.Close()
}

// WriteCSV writes one row per frame: time, then x, y, vx, vy per body.
func WriteCSV(w io.Writer, traj *Trajectory) error {
	if len(traj.Times) != len(traj.Samples) {
		return fmt.Errorf("trajectory has %d times for %d rows", len(traj.Times), len(traj.Samples))
	}

	cw := csv.NewWriter(w)

	header := []string{"time"}
	for _, name := range traj.Bodies {
		header = append(header, name+"_x", name+"_y", name+"_vx", name+"_vy")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range traj.Samples {
		rec := []string{strconv.FormatFloat(traj.Times[i], 'g', -1, 64)}
		for _, s := range row {
			rec = append(rec,
				strconv.FormatFloat(s.Position.X, 'g', -1, 64),
				strconv.FormatFloat(s.Position.Y, 'g', -1, 64),
				strconv.FormatFloat(s.Velocity.X, 'g', -1, 64),
				strconv.FormatFloat(s.Velocity.Y, 'g', -1, 64),
			)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectory reads a run's trajectory back. Body colours come from the
// run's metadata when it lists one per body.
func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	traj, err := ReadCSV(file)
	if err != nil {
		return nil, err
	}

	if meta, err := s.Load(runID); err == nil && len(meta.Colors) == len(traj.Bodies) {
		copy(traj.Colors, meta.Colors)
	}
	return traj, nil
}

func ReadCSV(r io.Reader) (*Trajectory, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty trajectory")
	}

	header := records[0]
	if len(header) < 1 || (len(header)-1)%4 != 0 {
		return nil, fmt.Errorf("malformed trajectory header: %d columns", len(header))
	}

	n := (len(header) - 1) / 4
	traj := &Trajectory{
		Bodies:  make([]string, n),
		Colors:  make([]string, n),
		Times:   make([]float64, 0, len(records)-1),
		Samples: make([][]Sample, 0, len(records)-1),
	}
	for i := 0; i < n; i++ {
		traj.Bodies[i] = strings.TrimSuffix(header[1+i*4], "_x")
	}

	for line, rec := range records[1:] {
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line+2, j+1, err)
			}
			vals[j] = v
		}

		row := make([]Sample, n)
		for i := range row {
			k := 1 + i*4
			row[i] = Sample{
				Position: physics.Vector{X: vals[k], Y: vals[k+1]},
				Velocity: physics.Vector{X: vals[k+2], Y: vals[k+3]},
			}
		}
		traj.Times = append(traj.Times, vals[0])
		traj.Samples = append(traj.Samples, row)
	}

	return traj, nil
}
