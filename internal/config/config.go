// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"affordability-engine/internal/loader"
	"affordability-engine/internal/model"
)

const (
	DefaultPort      = "8080"
	DefaultDataDir   = "data"
	DefaultYears     = "2025-2029"
	DefaultScenarios = "QI_base,QI_full"
)

type Config struct {
	Port        string
	DataDir     string
	SupplyFile  string
	CatalogFile string
	Years       []int
	Scenarios   []model.IncomeScenario
}

// Load reads the .env file if present and then the environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a variable lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:        get("PORT", DefaultPort),
		DataDir:     get("AFFORD_DATA_DIR", DefaultDataDir),
		SupplyFile:  get("AFFORD_SUPPLY_FILE", ""),
		CatalogFile: get("AFFORD_CATALOG_FILE", ""),
	}

	years, err := ParseYears(get("AFFORD_YEARS", DefaultYears))
	if err != nil {
		return nil, fmt.Errorf("AFFORD_YEARS: %w", err)
	}
	cfg.Years = years

	scenarios, err := ParseScenarios(get("AFFORD_SCENARIOS", DefaultScenarios))
	if err != nil {
		return nil, fmt.Errorf("AFFORD_SCENARIOS: %w", err)
	}
	cfg.Scenarios = scenarios

	return cfg, nil
}

// SupplyPath is the explicit supply file, or the data directory's supply
// file. The second result is false when the path was not set explicitly.
func (c *Config) SupplyPath() (string, bool) {
	if c.SupplyFile != "" {
		return c.SupplyFile, true
	}
	return filepath.Join(c.DataDir, loader.SupplyFileName), false
}

// ParseYears accepts an inclusive range ("2025-2029") or a comma separated
// list ("2025,2027").
func ParseYears(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if from, to, ok := strings.Cut(s, "-"); ok {
		lo, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", from)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", to)
		}
		if hi < lo {
			return nil, fmt.Errorf("year range %d-%d is reversed", lo, hi)
		}
		years := make([]int, 0, hi-lo+1)
		for y := lo; y <= hi; y++ {
			years = append(years, y)
		}
		return years, nil
	}

	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, errors.New("no years given")
	}
	return years, nil
}

func ParseScenarios(s string) ([]model.IncomeScenario, error) {
	var out []model.IncomeScenario
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		scen := model.IncomeScenario(part)
		if !scen.Valid() {
			return nil, fmt.Errorf("unknown income scenario %q", part)
		}
		out = append(out, scen)
	}
	if len(out) == 0 {
		return nil, errors.New("no scenarios given")
	}
	return out, nil
}
