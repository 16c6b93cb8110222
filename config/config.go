package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/ptsim/market"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PTSIM_"

// Config describes one performance run.
type Config struct {
	System    string         `json:"system" yaml:"system"`
	TimeFrame string         `json:"time_frame" yaml:"time_frame"`
	Universe  UniverseConfig `json:"universe" yaml:"universe"`
	Data      DataConfig     `json:"data" yaml:"data"`
	Engine    EngineConfig   `json:"engine" yaml:"engine"`
	Journal   JournalConfig  `json:"journal" yaml:"journal"`
	Log       LogConfig      `json:"log" yaml:"log"`
	Report    ReportConfig   `json:"report" yaml:"report"`
}

// UniverseConfig lists instruments inline or points at a file with one
// code per line. The file wins when both are set.
type UniverseConfig struct {
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Codes []string `json:"codes,omitempty" yaml:"codes,omitempty"`
	File  string   `json:"file,omitempty" yaml:"file,omitempty"`
}

type DataConfig struct {
	PricesDir string `json:"prices_dir" yaml:"prices_dir"`
	LogFile   string `json:"log_file" yaml:"log_file"`
}

type EngineConfig struct {
	Workers int `json:"workers" yaml:"workers"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	CurveFile  string `json:"curve_file,omitempty" yaml:"curve_file,omitempty"`
	OrgFile    string `json:"org_file,omitempty" yaml:"org_file,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type ReportConfig struct {
	RecentYears int `json:"recent_years" yaml:"recent_years"`
}

// LoadFromFile loads configuration from a YAML or JSON file, applies
// environment overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = &Config{}
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", errors.Join(err, jerr))
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	cfg.ResolvePaths(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.TimeFrame == "" {
		c.TimeFrame = market.Daily.String()
	}
	if c.Engine.Workers == 0 {
		c.Engine.Workers = 1
	}
	if c.Journal.Type == "" {
		c.Journal.Type = "none"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Report.RecentYears == 0 {
		c.Report.RecentYears = 5
	}
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LoadEnv reads KEY=value files into the process environment without
// overwriting variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from PTSIM_* environment variables.
func (c *Config) ApplyEnv() error {
	str := map[string]*string{
		"SYSTEM":        &c.System,
		"TIME_FRAME":    &c.TimeFrame,
		"UNIVERSE_FILE": &c.Universe.File,
		"PRICES_DIR":    &c.Data.PricesDir,
		"LOG_FILE":      &c.Data.LogFile,
		"JOURNAL_TYPE":  &c.Journal.Type,
		"DB_PATH":       &c.Journal.DBPath,
		"LOG_LEVEL":     &c.Log.Level,
		"LOG_FORMAT":    &c.Log.Format,
		"ORG_FILE":      &c.Journal.OrgFile,
		"TRADES_FILE":   &c.Journal.TradesFile,
		"CURVE_FILE":    &c.Journal.CurveFile,
		"UNIVERSE_NAME": &c.Universe.Name,
	}
	for k, p := range str {
		if v := os.Getenv(EnvPrefix + k); v != "" {
			*p = v
		}
	}

	if v := os.Getenv(EnvPrefix + "UNIVERSE_CODES"); v != "" {
		c.Universe.Codes = nil
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				c.Universe.Codes = append(c.Universe.Codes, code)
			}
		}
	}
	if v := os.Getenv(EnvPrefix + "WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		c.Engine.Workers = n
	}
	if v := os.Getenv(EnvPrefix + "RECENT_YEARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sRECENT_YEARS: %w", EnvPrefix, err)
		}
		c.Report.RecentYears = n
	}
	return nil
}

// ResolvePaths makes relative file paths relative to base.
func (c *Config) ResolvePaths(base string) {
	for _, p := range []*string{
		&c.Universe.File,
		&c.Data.PricesDir,
		&c.Data.LogFile,
		&c.Journal.DBPath,
		&c.Journal.TradesFile,
		&c.Journal.CurveFile,
		&c.Journal.OrgFile,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.System == "" {
		return fmt.Errorf("system is required")
	}
	if _, err := market.ParseTimeFrame(c.TimeFrame); err != nil {
		return err
	}
	if c.Universe.File == "" && len(c.Universe.Codes) == 0 {
		return fmt.Errorf("universe needs codes or a file")
	}
	if c.Data.PricesDir == "" {
		return fmt.Errorf("data.prices_dir is required")
	}
	if c.Data.LogFile == "" {
		return fmt.Errorf("data.log_file is required")
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.CurveFile == "" {
			return fmt.Errorf("journal trades_file and curve_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	if c.Report.RecentYears < 0 {
		return fmt.Errorf("report.recent_years must not be negative")
	}
	return nil
}

// Frame returns the parsed time frame.
func (c *Config) Frame() market.TimeFrame {
	tf, _ := market.ParseTimeFrame(c.TimeFrame)
	return tf
}

// LoadUniverse resolves the configured universe. A universe file supplies
// the codes; Name, when set, replaces the file-derived name.
func (c *Config) LoadUniverse() (market.Universe, error) {
	if c.Universe.File != "" {
		u, err := market.LoadUniverse(c.Universe.File)
		if err != nil {
			return market.Universe{}, fmt.Errorf("load universe: %w", err)
		}
		if c.Universe.Name != "" {
			u.Name = c.Universe.Name
		}
		return u, nil
	}
	name := c.Universe.Name
	if name == "" {
		name = "inline"
	}
	return market.Universe{Name: name, Codes: append([]string(nil), c.Universe.Codes...)}, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		System:    "system",
		TimeFrame: market.Daily.String(),
		Universe: UniverseConfig{
			File: "universe.txt",
		},
		Data: DataConfig{
			PricesDir: "prices",
			LogFile:   "log.csv",
		},
		Engine: EngineConfig{
			Workers: 1,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "ptsim.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Report: ReportConfig{
			RecentYears: 5,
		},
	}
}
