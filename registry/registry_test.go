package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feature-infra/gherkin-acceptor/types"
)

func writePlan(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewRegistry_ExplicitTargets(t *testing.T) {
	dir := t.TempDir()
	plan := writePlan(t, dir, `
description: smoke
targets:
  - file: features/login.feature
  - file: features/cart.feature
    scenario_line: 12
  - file: features/cart.feature
    scenario_line: 12
    example_line: 25
`)

	r, err := NewRegistry(Config{PlanFile: plan})
	require.NoError(t, err)

	targets := r.Targets()
	require.Len(t, targets, 3)
	assert.Equal(t, "features/login.feature", targets[0].Address())
	assert.Equal(t, "features/cart.feature:12", targets[1].Address())
	assert.Equal(t, "features/cart.feature:25", targets[2].Address())
	assert.Equal(t, "smoke", r.Description())
}

func TestNewRegistry_Discover(t *testing.T) {
	dir := t.TempDir()
	featDir := filepath.Join(dir, "features")
	require.NoError(t, os.MkdirAll(featDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(featDir, "a.feature"),
		[]byte("Feature: A\n  Scenario: one\n    Then ok\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(featDir, "b.feature"),
		[]byte("Feature: B\n  Scenario: two\n    Then ok\n"), 0o644))

	plan := writePlan(t, dir, "discover: features\n")

	r, err := NewRegistry(Config{PlanFile: plan})
	require.NoError(t, err)

	targets := r.Targets()
	require.Len(t, targets, 2)
	for _, target := range targets {
		assert.True(t, target.WholeFile())
	}
}

func TestNewRegistry_DuplicatesDropped(t *testing.T) {
	dir := t.TempDir()
	plan := writePlan(t, dir, `
targets:
  - file: features/a.feature
    scenario_line: 5
  - file: features/a.feature
    scenario_line: 5
`)

	r, err := NewRegistry(Config{PlanFile: plan})
	require.NoError(t, err)
	assert.Len(t, r.Targets(), 1)
}

func TestNewRegistry_Errors(t *testing.T) {
	t.Run("missing plan file flag", func(t *testing.T) {
		_, err := NewRegistry(Config{})
		assert.Error(t, err)
	})

	t.Run("nonexistent plan file", func(t *testing.T) {
		_, err := NewRegistry(Config{PlanFile: filepath.Join(t.TempDir(), "absent.yaml")})
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		plan := writePlan(t, t.TempDir(), "targets: [unclosed")
		_, err := NewRegistry(Config{PlanFile: plan})
		assert.Error(t, err)
	})

	t.Run("zero targets", func(t *testing.T) {
		plan := writePlan(t, t.TempDir(), "description: empty\n")
		_, err := NewRegistry(Config{PlanFile: plan})
		assert.Error(t, err)
	})

	t.Run("invalid target", func(t *testing.T) {
		plan := writePlan(t, t.TempDir(), `
targets:
  - file: features/a.feature
    example_line: 9
`)
		_, err := NewRegistry(Config{PlanFile: plan})
		assert.Error(t, err)
	})
}

func TestRegistry_TargetsReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	plan := writePlan(t, dir, "targets:\n  - file: features/a.feature\n")

	r, err := NewRegistry(Config{PlanFile: plan})
	require.NoError(t, err)

	targets := r.Targets()
	targets[0] = types.RunTarget{Feature: "mutated"}
	assert.Equal(t, "features/a.feature", r.Targets()[0].Feature)
}
