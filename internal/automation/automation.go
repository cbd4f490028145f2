// Package automation runs scripted batches of galaxy generations.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/galaxy/internal/analysis"
	"github.com/san-kum/galaxy/internal/config"
	"github.com/san-kum/galaxy/internal/export"
	"github.com/san-kum/galaxy/internal/galaxy"
	"github.com/san-kum/galaxy/internal/storage"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted generation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single generation. Preset falls back to the scenario's
// preset, then to the defaults; Params are applied on top.
type ScenarioStep struct {
	Preset  string             `yaml:"preset"`
	Params  map[string]float64 `yaml:"params"`
	Colored *bool              `yaml:"colored"`
	Layout  galaxy.Layout      `yaml:"layout"`
	Seed    int64              `yaml:"seed"`
	SaveAs  string             `yaml:"save_as"`
	Export  string             `yaml:"export"`
}

// StepResult records what a step produced.
type StepResult struct {
	Step       int
	SnapshotID string
	ExportPath string
	Params     galaxy.Params
	Metrics    map[string]float64
	Elapsed    time.Duration
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Params resolves the parameters of step i.
func (s *Scenario) Params(i int) (galaxy.Params, error) {
	step := s.Steps[i]
	p := galaxy.DefaultParams()
	if name := firstNonEmpty(step.Preset, s.Preset); name != "" {
		var err error
		if p, err = config.Preset(name); err != nil {
			return p, err
		}
	}

	keys := make([]string, 0, len(step.Params))
	for k := range step.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := p.Set(k, step.Params[k]); err != nil {
			return p, err
		}
	}
	if step.Colored != nil {
		p.Colored = *step.Colored
	}
	if step.Layout != "" {
		p.Layout = step.Layout
	}
	if step.Seed != 0 {
		p.Seed = step.Seed
	}
	return p, p.Validate()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// RunScenario executes all steps in a scenario. Snapshots are saved when
// store is non-nil; exports are written relative to exportDir.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, exportDir string) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step", "scenario", scenario.Name, "step", fmt.Sprintf("%d/%d", i+1, len(scenario.Steps)))

		p, err := scenario.Params(i)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		start := time.Now()
		f, err := galaxy.Generate(ctx, p)
		if err != nil {
			return results, fmt.Errorf("step %d generate: %w", i+1, err)
		}
		res := StepResult{
			Step:    i + 1,
			Params:  f.Params,
			Metrics: analysis.Metrics(f),
			Elapsed: time.Since(start),
		}

		if store != nil {
			name := firstNonEmpty(step.SaveAs, fmt.Sprintf("%s-%d", scenarioSlug(scenario.Name), i+1))
			if res.SnapshotID, err = store.Save(name, f, res.Metrics); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		if step.Export != "" {
			res.ExportPath = step.Export
			if !filepath.IsAbs(res.ExportPath) {
				res.ExportPath = filepath.Join(exportDir, res.ExportPath)
			}
			if err := export.WriteFile(res.ExportPath, "", f, res.Metrics); err != nil {
				return results, fmt.Errorf("step %d export: %w", i+1, err)
			}
		}

		log.Debug("step done", "step", i+1, "particles", f.Len(), "seed", f.Params.Seed, "elapsed", res.Elapsed)
		results = append(results, res)
	}

	return results, nil
}

func scenarioSlug(name string) string {
	return storage.Slug(name, "scenario")
}

// EnsembleConfig generates the same parameters under many seeds.
type EnsembleConfig struct {
	Params    galaxy.Params
	NumTrials int
	// Seed drives the per-trial seeds; 0 uses the clock.
	Seed int64
}

// MetricStats is the spread of one metric over an ensemble.
type MetricStats struct {
	Mean, Std, Min, Max float64
}

type EnsembleResult struct {
	Seeds   []int64
	Metrics map[string]MetricStats
}

// RunEnsemble measures how much the metrics of a parameter set depend on the
// random seed.
func RunEnsemble(ctx context.Context, cfg EnsembleConfig) (*EnsembleResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("ensemble needs at least one trial, got %d", cfg.NumTrials)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	res := &EnsembleResult{Metrics: make(map[string]MetricStats)}
	samples := make(map[string][]float64)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		p := cfg.Params
		p.Seed = rng.Int63() + 1
		f, err := galaxy.Generate(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial+1, err)
		}
		res.Seeds = append(res.Seeds, p.Seed)
		for k, v := range analysis.Metrics(f) {
			samples[k] = append(samples[k], v)
		}
		if (trial+1)%10 == 0 {
			log.Info("ensemble progress", "done", trial+1, "total", cfg.NumTrials)
		}
	}

	for k, vals := range samples {
		mean, std := stat.MeanStdDev(vals, nil)
		if len(vals) == 1 {
			std = 0
		}
		lo, hi := vals[0], vals[0]
		for _, v := range vals {
			lo, hi = min(lo, v), max(hi, v)
		}
		res.Metrics[k] = MetricStats{Mean: mean, Std: std, Min: lo, Max: hi}
	}
	return res, nil
}
