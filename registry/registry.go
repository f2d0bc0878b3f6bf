// Package registry loads batch plans: the declarative description of which
// feature targets a batch run covers.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/feature-infra/gherkin-acceptor/features"
	"github.com/feature-infra/gherkin-acceptor/types"
)

// Plan is the YAML shape of a batch plan file.
type Plan struct {
	Description string `yaml:"description,omitempty"`
	// Discover names a directory to walk for feature files; each becomes a
	// whole-file target.
	Discover string `yaml:"discover,omitempty"`
	// Targets lists explicit targets, optionally line-addressed.
	Targets []types.RunTarget `yaml:"targets,omitempty"`
}

// Registry manages the resolved target list for a batch plan.
type Registry struct {
	config  Config
	plan    Plan
	targets []types.RunTarget
	mu      sync.RWMutex
}

// Config contains registry configuration.
type Config struct {
	Log      log.Logger
	PlanFile string
	// WorkDir anchors relative paths in the plan. Defaults to the plan
	// file's directory.
	WorkDir string
}

// NewRegistry loads and validates a batch plan.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.PlanFile == "" {
		return nil, fmt.Errorf("batch plan file is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = filepath.Dir(cfg.PlanFile)
	}

	r := &Registry{config: cfg}
	if err := r.loadTargets(cfg.PlanFile); err != nil {
		return nil, fmt.Errorf("failed to load batch plan: %w", err)
	}

	cfg.Log.Debug("Registry loaded", "len(targets)", len(r.targets))
	return r, nil
}

func (r *Registry) loadTargets(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, err := loadPlan(path)
	if err != nil {
		return err
	}
	r.plan = *plan

	targets, err := r.resolveTargets(plan)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("batch plan %s resolves to zero targets", path)
	}

	r.targets = targets
	return nil
}

// resolveTargets expands the discover directory and validates every explicit
// target. Duplicate addresses are dropped, first occurrence wins, so a
// discovered file does not shadow a line-addressed target for the same file.
func (r *Registry) resolveTargets(plan *Plan) ([]types.RunTarget, error) {
	var targets []types.RunTarget
	seen := make(map[string]bool)

	add := func(t types.RunTarget) {
		addr := t.Address()
		if seen[addr] {
			r.config.Log.Warn("Duplicate target in batch plan, keeping first", "target", addr)
			return
		}
		seen[addr] = true
		targets = append(targets, t)
	}

	for _, t := range plan.Targets {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid target: %w", err)
		}
		add(t)
	}

	if plan.Discover != "" {
		dir := plan.Discover
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.config.WorkDir, dir)
		}
		files, err := features.Discover(dir)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			r.config.Log.Warn("Discover directory contains no feature files", "dir", dir)
		}
		for _, file := range files {
			add(types.RunTarget{Feature: file})
		}
	}

	return targets, nil
}

// Targets returns the resolved target list in plan order.
func (r *Registry) Targets() []types.RunTarget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.RunTarget, len(r.targets))
	copy(out, r.targets)
	return out
}

// Description returns the plan's free-form description.
func (r *Registry) Description() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plan.Description
}

// GetConfig returns the registry configuration.
func (r *Registry) GetConfig() Config {
	return r.config
}

// loadPlan reads a batch plan from a YAML file.
func loadPlan(path string) (*Plan, error) {
	log.Debug("Reading batch plan file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &plan, nil
}
