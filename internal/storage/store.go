// Package storage persists simulation runs: one directory per run with
// JSON metadata, the energy history as CSV, and the final m_z grid as CSV.
// Array shape (N, N, 3) and the SI unit convention of the parameter set
// are preserved by the writers.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/spinsim/internal/mag"
	"github.com/san-kum/spinsim/internal/sim"
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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Method      string             `json:"method"`
	Pattern     string             `json:"pattern"`
	GridSize    int                `json:"grid_size"`
	Dt          float64            `json:"dt"`
	FinalDt     float64            `json:"final_dt"`
	StepsTaken  int                `json:"steps_taken"`
	Halvings    int                `json:"halvings"`
	Softenings  int                `json:"softenings"`
	FinalEnergy float64            `json:"final_energy"`
	EnergyTerms map[string]float64 `json:"energy_terms"`
}

// Save writes one run directory and returns its ID.
func (s *Store) Save(seed int64, method, pattern string, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Seed:        seed,
		Method:      method,
		Pattern:     pattern,
		GridSize:    result.Params.GridSize,
		Dt:          result.Params.Dt,
		FinalDt:     result.FinalDt,
		StepsTaken:  result.StepsTaken,
		Halvings:    result.Halvings,
		Softenings:  result.Softenings,
		FinalEnergy: result.FinalEnergy.Total,
		EnergyTerms: map[string]float64{
			"exchange":   result.FinalEnergy.Exchange,
			"dmi":        result.FinalEnergy.DMI,
			"anisotropy": result.FinalEnergy.Anisotropy,
			"zeeman":     result.FinalEnergy.Zeeman,
		},
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeEnergyCSV(filepath.Join(runDir, "energy.csv"), result.History); err != nil {
		return "", err
	}
	if result.Final != nil {
		if err := WriteScalarCSV(filepath.Join(runDir, "m_z_final.csv"), result.Final.Component(2)); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEnergyCSV(path string, history []mag.EnergySample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"step", "energy"}); err != nil {
		return err
	}
	for _, s := range history {
		row := []string{
			strconv.Itoa(s.Step),
			strconv.FormatFloat(s.Energy, 'e', 9, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteScalarCSV writes an N×N scalar grid as N rows of N values.
func WriteScalarCSV(path string, field *mag.ScalarField) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	row := make([]string, field.N)
	for y := 0; y < field.N; y++ {
		for x := 0; x < field.N; x++ {
			row[x] = strconv.FormatFloat(field.At(x, y), 'f', 6, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// List returns metadata for every stored run.
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

// LoadEnergy reads a run's energy history back from CSV.
func (s *Store) LoadEnergy(runID string) ([]mag.EnergySample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "energy.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	history := make([]mag.EnergySample, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		e, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		history = append(history, mag.EnergySample{Step: step, Energy: e})
	}
	return history, nil
}

// LoadMz reads a run's final m_z grid back from CSV.
func (s *Store) LoadMz(runID string) (*mag.ScalarField, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "m_z_final.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("storage: empty m_z grid in %s", runID)
	}

	n := len(records)
	field := mag.NewScalarField(n)
	for y, rec := range records {
		if len(rec) != n {
			return nil, fmt.Errorf("storage: ragged m_z grid in %s: row %d has %d values, want %d",
				runID, y, len(rec), n)
		}
		for x, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, err
			}
			field.Set(x, y, v)
		}
	}
	return field, nil
}
