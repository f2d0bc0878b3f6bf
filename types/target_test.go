package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTarget_Address(t *testing.T) {
	tests := []struct {
		name   string
		target RunTarget
		want   string
	}{
		{
			name:   "whole file",
			target: RunTarget{Feature: "features/login.feature"},
			want:   "features/login.feature",
		},
		{
			name:   "single scenario",
			target: RunTarget{Feature: "features/login.feature", ScenarioLine: 12},
			want:   "features/login.feature:12",
		},
		{
			name:   "example row wins over scenario line",
			target: RunTarget{Feature: "features/login.feature", ScenarioLine: 12, ExampleLine: 25},
			want:   "features/login.feature:25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.Address())
		})
	}
}

func TestRunTarget_Validate(t *testing.T) {
	require.NoError(t, RunTarget{Feature: "a.feature"}.Validate())
	require.NoError(t, RunTarget{Feature: "a.feature", ScenarioLine: 5}.Validate())
	require.NoError(t, RunTarget{Feature: "a.feature", ScenarioLine: 5, ExampleLine: 9}.Validate())

	assert.Error(t, RunTarget{}.Validate(), "empty feature must be rejected")
	assert.Error(t, RunTarget{Feature: "a.feature", ScenarioLine: -1}.Validate())
	assert.Error(t, RunTarget{Feature: "a.feature", ExampleLine: 9}.Validate(),
		"example line without scenario line must be rejected")
}

func TestRunTarget_WholeFile(t *testing.T) {
	assert.True(t, RunTarget{Feature: "a.feature"}.WholeFile())
	assert.False(t, RunTarget{Feature: "a.feature", ScenarioLine: 3}.WholeFile())
}
