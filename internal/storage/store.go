// Package storage persists completed runs: metadata as JSON, the energy
// series and trajectory as CSV, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/nbody"
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
	ID               string             `json:"id"`
	Timestamp        time.Time          `json:"timestamp"`
	Bodies           int                `json:"bodies"`
	TotalMass        float64            `json:"total_mass"`
	G                float64            `json:"g"`
	Softening        float64            `json:"softening"`
	Dt               float64            `json:"dt"`
	Steps            int                `json:"steps"`
	Seed             int64              `json:"seed"`
	Init             string             `json:"init"`
	InitialKinetic   float64            `json:"initial_kinetic"`
	InitialPotential float64            `json:"initial_potential"`
	Metrics          map[string]float64 `json:"metrics"`
}

// Series are the stored per-step diagnostics, index-aligned with
// trajectory entries 1..steps.
type Series struct {
	Kinetic   []float64
	Potential []float64
	Total     []float64
	Virial    []float64
}

func (s *Store) Save(cfg *config.Config, result *nbody.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:               runID,
		Timestamp:        time.Now(),
		Bodies:           cfg.Bodies,
		TotalMass:        cfg.TotalMass,
		G:                cfg.G,
		Softening:        cfg.Softening,
		Dt:               cfg.Dt,
		Steps:            result.StepsTaken,
		Seed:             cfg.Seed,
		Init:             cfg.InitState.Kind,
		InitialKinetic:   result.InitialKinetic,
		InitialPotential: result.InitialPotential,
		Metrics:          result.Metrics,
	}

	if err := s.writeMetadata(runDir, meta); err != nil {
		return "", err
	}
	if err := s.writeEnergies(runDir, result); err != nil {
		return "", err
	}
	if err := s.writeTrajectory(runDir, result); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) writeMetadata(runDir string, meta RunMetadata) error {
	f, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *Store) writeEnergies(runDir string, result *nbody.Result) error {
	f, err := os.Create(filepath.Join(runDir, "energies.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"step", "kinetic", "potential", "total", "virial"}); err != nil {
		return err
	}

	for i := range result.Kinetic {
		row := []string{
			strconv.Itoa(i + 1),
			formatFloat(result.Kinetic[i]),
			formatFloat(result.Potential[i]),
			formatFloat(result.Total[i]),
			formatFloat(result.Virial[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) writeTrajectory(runDir string, result *nbody.Result) error {
	f, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if len(result.Trajectory) == 0 {
		return nil
	}

	header := []string{"step"}
	for i := range result.Trajectory[0] {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for step, frame := range result.Trajectory {
		row := make([]string, 0, 1+3*len(frame))
		row = append(row, strconv.Itoa(step))
		for _, p := range frame {
			row = append(row, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
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

func (s *Store) LoadSeries(runID string) (*Series, error) {
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "energies.csv"))
	if err != nil {
		return nil, err
	}

	series := &Series{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 5 {
			continue
		}

		vals := make([]float64, 4)
		ok := true
		for j := 0; j < 4; j++ {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		series.Kinetic = append(series.Kinetic, vals[0])
		series.Potential = append(series.Potential, vals[1])
		series.Total = append(series.Total, vals[2])
		series.Virial = append(series.Virial, vals[3])
	}

	return series, nil
}

func (s *Store) LoadTrajectory(runID string) ([][]nbody.Vec3, error) {
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}

	frames := make([][]nbody.Vec3, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 || (len(record)-1)%3 != 0 {
			continue
		}

		frame := make([]nbody.Vec3, 0, (len(record)-1)/3)
		for j := 1; j+2 < len(record); j += 3 {
			x, err1 := strconv.ParseFloat(record[j], 64)
			y, err2 := strconv.ParseFloat(record[j+1], 64)
			z, err3 := strconv.ParseFloat(record[j+2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				break
			}
			frame = append(frame, nbody.Vec3{X: x, Y: y, Z: z})
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

func (s *Store) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
