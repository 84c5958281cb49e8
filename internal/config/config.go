package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/limaJavier/sessionplanner/pkg/ilp"
	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/mitchellh/mapstructure"
)

const DefaultConfigFile = "config.json"

// Config covers process level configuration. Values come from config.json, then from SESSIONPLANNER_*
// environment variables (a .env file included), the latter taking precedence
type Config struct {
	Environment        string
	LogLevel           string
	LogFormat          string
	ConfigFile         string
	Strategy           model.Strategy
	Solver             ilp.SolverType
	Bound              model.BoundPolicy
	FallbackTravelTime *int          // Minutes assumed for unlisted location pairs, nil to fail on them
	Timeout            time.Duration // Zero means no time budget
}

// fileConfig mirrors the optional defaults of config.json, which also holds solver executable paths
type fileConfig struct {
	Strategy           string        `mapstructure:"strategy"`
	Solver             string        `mapstructure:"solver"`
	Bound              string        `mapstructure:"bound"`
	FallbackTravelTime *int          `mapstructure:"fallbackTravelTime"`
	Timeout            time.Duration `mapstructure:"timeout"`
	LogLevel           string        `mapstructure:"logLevel"`
}

func Load() (*Config, error) {
	// A missing .env is fine, the environment may be set directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("SESSIONPLANNER_ENV", "development"),
		LogFormat:   getEnv("SESSIONPLANNER_LOG_FORMAT", "console"),
		ConfigFile:  getEnv("SESSIONPLANNER_CONFIG", locateConfigFile()),
		Strategy:    model.BranchAndBound,
		Solver:      ilp.Gophersat,
		Bound:       model.CountBound,
		LogLevel:    "info",
	}
	if strings.EqualFold(cfg.Environment, "development") {
		cfg.LogLevel = "debug"
	}

	file, err := readConfigFile(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.apply(file); err != nil {
		return nil, fmt.Errorf("%v: %w", cfg.ConfigFile, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Solver executables are resolved from the same file
	ilp.ConfigPath = cfg.ConfigFile
	return cfg, nil
}

func (cfg *Config) apply(file fileConfig) error {
	if file.Strategy != "" {
		strategy, err := model.ParseStrategy(file.Strategy)
		if err != nil {
			return err
		}
		cfg.Strategy = strategy
	}
	if file.Solver != "" {
		cfg.Solver = ilp.SolverType(file.Solver)
	}
	if file.Bound != "" {
		cfg.Bound = model.BoundPolicy(file.Bound)
	}
	if file.FallbackTravelTime != nil {
		cfg.FallbackTravelTime = file.FallbackTravelTime
	}
	if file.Timeout > 0 {
		cfg.Timeout = file.Timeout
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	return nil
}

func (cfg *Config) applyEnv() error {
	cfg.LogLevel = getEnv("SESSIONPLANNER_LOG_LEVEL", cfg.LogLevel)

	if value := os.Getenv("SESSIONPLANNER_STRATEGY"); value != "" {
		strategy, err := model.ParseStrategy(value)
		if err != nil {
			return fmt.Errorf("SESSIONPLANNER_STRATEGY: %w", err)
		}
		cfg.Strategy = strategy
	}
	cfg.Solver = ilp.SolverType(strings.ToLower(getEnv("SESSIONPLANNER_SOLVER", string(cfg.Solver))))
	cfg.Bound = model.BoundPolicy(strings.ToLower(getEnv("SESSIONPLANNER_BOUND", string(cfg.Bound))))

	if value := os.Getenv("SESSIONPLANNER_FALLBACK_TRAVEL_MINUTES"); value != "" {
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("SESSIONPLANNER_FALLBACK_TRAVEL_MINUTES must be an integer: %q", value)
		}
		cfg.FallbackTravelTime = &minutes
		if minutes < 0 {
			cfg.FallbackTravelTime = nil
		}
	}

	if value := os.Getenv("SESSIONPLANNER_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("SESSIONPLANNER_TIMEOUT must be a duration: %w", err)
		}
		cfg.Timeout = timeout
	}
	return nil
}

func (cfg *Config) Validate() error {
	if _, err := model.ParseStrategy(string(cfg.Strategy)); err != nil {
		return err
	}
	if !cfg.Bound.Valid() {
		return fmt.Errorf("unknown bound policy %q (available: %v)", cfg.Bound, model.BoundPolicies())
	}

	solverKnown := false
	for _, solverType := range ilp.SolverTypes() {
		solverKnown = solverKnown || solverType == cfg.Solver
	}
	if !solverKnown {
		return fmt.Errorf("unknown solver %q (available: %v)", cfg.Solver, ilp.SolverTypes())
	}

	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative: %v", cfg.Timeout)
	}
	return nil
}

func readConfigFile(path string) (fileConfig, error) {
	var file fileConfig

	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return file, nil
	} else if err != nil {
		return file, fmt.Errorf("read %v: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return file, fmt.Errorf("parse %v: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &file,
	})
	if err != nil {
		return file, err
	}
	if err := decoder.Decode(raw); err != nil {
		return file, fmt.Errorf("decode %v: %w", path, err)
	}
	return file, nil
}

// locateConfigFile prefers a config.json next to the executable, then the working directory
func locateConfigFile() string {
	if executable, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(executable), DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return DefaultConfigFile
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
