package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/sessionplanner/pkg/ilp"
	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSIONPLANNER_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("SESSIONPLANNER_ENV", "production")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, model.BranchAndBound, cfg.Strategy)
	assert.Equal(t, ilp.Gophersat, cfg.Solver)
	assert.Equal(t, model.CountBound, cfg.Bound)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Nil(t, cfg.FallbackTravelTime)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadReadsConfigFile(t *testing.T) {
	//** Arrange
	path := writeConfig(t, `{
		"glpsolPath": "/opt/glpk/bin/glpsol",
		"strategy": "bnb",
		"solver": "glpsol",
		"bound": "matching",
		"fallbackTravelTime": 20,
		"timeout": "45s"
	}`)
	t.Setenv("SESSIONPLANNER_CONFIG", path)

	//** Act
	cfg, err := Load()

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, model.BranchAndBound, cfg.Strategy)
	assert.Equal(t, ilp.Glpsol, cfg.Solver)
	assert.Equal(t, model.MatchingBound, cfg.Bound)
	require.NotNil(t, cfg.FallbackTravelTime)
	assert.Equal(t, 20, *cfg.FallbackTravelTime)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, path, ilp.ConfigPath)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("SESSIONPLANNER_CONFIG", writeConfig(t, `{"strategy": "greedy", "fallbackTravelTime": 20, "timeout": "45s"}`))
	t.Setenv("SESSIONPLANNER_STRATEGY", "ilp")
	t.Setenv("SESSIONPLANNER_FALLBACK_TRAVEL_MINUTES", "-1")
	t.Setenv("SESSIONPLANNER_TIMEOUT", "2m")
	t.Setenv("SESSIONPLANNER_LOG_LEVEL", "warn")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, model.ILP, cfg.Strategy)
	assert.Nil(t, cfg.FallbackTravelTime)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := map[string]map[string]string{
		"strategy": {"SESSIONPLANNER_STRATEGY": "annealing"},
		"solver":   {"SESSIONPLANNER_SOLVER": "cplex"},
		"bound":    {"SESSIONPLANNER_BOUND": "lagrangian"},
		"fallback": {"SESSIONPLANNER_FALLBACK_TRAVEL_MINUTES": "soon"},
		"timeout":  {"SESSIONPLANNER_TIMEOUT": "-5s"},
	}

	for name, environment := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SESSIONPLANNER_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
			for key, value := range environment {
				t.Setenv(key, value)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}

	t.Run("malformed file", func(t *testing.T) {
		t.Setenv("SESSIONPLANNER_CONFIG", writeConfig(t, `{"strategy": `))
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadReadsDotEnv(t *testing.T) {
	//** Arrange
	t.Chdir(t.TempDir())
	t.Setenv("SESSIONPLANNER_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, os.WriteFile(".env", []byte("SESSIONPLANNER_LOG_LEVEL=warn\n"), 0o644))
	t.Setenv("SESSIONPLANNER_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("SESSIONPLANNER_LOG_LEVEL"))

	//** Act
	cfg, err := Load()

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	//** Arrange
	t.Chdir(t.TempDir())
	t.Setenv("SESSIONPLANNER_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, os.WriteFile(".env", []byte("SESSIONPLANNER_STRATEGY=\"greedy\n"), 0o644))

	//** Act
	cfg, err := Load()

	//** Assert
	assert.Error(t, err)
	assert.ErrorContains(t, err, ".env")
	assert.Nil(t, cfg)
}
