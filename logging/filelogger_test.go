package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feature-infra/gherkin-acceptor/types"
)

func TestFileLogger_RunDirectoryLayout(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-123")
	require.NoError(t, err)

	assert.Equal(t, "run-123", l.GetRunID())
	assert.Equal(t, filepath.Join(base, "batchrun-run-123"), l.RunDir())
	assert.Equal(t, filepath.Join(l.RunDir(), RawReportFilename), l.ReportPath())

	info, err := os.Stat(l.RunDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileLogger_SummaryAndFailureFiles(t *testing.T) {
	l, err := NewFileLogger(t.TempDir(), "run-1")
	require.NoError(t, err)

	require.NoError(t, l.LogTargetVerdict(types.TargetVerdict{
		Target: types.RunTarget{Feature: "features/a.feature"},
		Status: types.TestStatusPass,
	}))
	require.NoError(t, l.LogTargetVerdict(types.TargetVerdict{
		Target: types.RunTarget{Feature: "features/b.feature", ScenarioLine: 7},
		Status: types.TestStatusFail,
		Failures: []types.Failure{
			{Label: "Given a cart", Message: "boom", Line: 8},
		},
	}))
	l.SetDuration(3 * time.Second)
	require.NoError(t, l.Complete())

	summary, err := os.ReadFile(filepath.Join(l.RunDir(), SummaryFilename))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Batch run-1 (3.0s)")
	assert.Contains(t, string(summary), "2 targets: 1 passed, 1 failed")

	detail, err := os.ReadFile(filepath.Join(l.RunDir(), FailureDirectory, "features_b.feature_7.log"))
	require.NoError(t, err)
	assert.Contains(t, string(detail), "line 8: Given a cart: boom")

	// Passing targets get no detail file.
	_, err = os.Stat(filepath.Join(l.RunDir(), FailureDirectory, "features_a.feature.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileLogger_ConsoleOutputStripsANSI(t *testing.T) {
	l, err := NewFileLogger(t.TempDir(), "run-1")
	require.NoError(t, err)

	input := "\x1b[32mINFO \x1b[0m2 scenarios (\x1b[31m1 failed\x1b[0m, 1 passed)\n"
	require.NoError(t, l.LogConsoleOutput([]byte(input)))

	data, err := os.ReadFile(filepath.Join(l.RunDir(), ConsoleFilename))
	require.NoError(t, err)
	assert.Equal(t, "INFO 2 scenarios (1 failed, 1 passed)\n", string(data))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "features_login.feature_12", sanitizeFilename("features/login.feature:12"))
	assert.Equal(t, "C__work_a.feature", sanitizeFilename("C:\\work\\a.feature"))
}
