// Package config loads espn-lines settings from an optional YAML file and the environment.
//
// Precedence, lowest to highest: built-in defaults, the YAML file, ESPN_LINES_*
// environment variables, then command-line flags (applied by the cli package).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/espn-lines/internal/game"
	"github.com/pfrederiksen/espn-lines/internal/logger"
	"github.com/pfrederiksen/espn-lines/internal/scraper"
	"github.com/pfrederiksen/espn-lines/internal/sink"
)

// DefaultCSVDataDir is where the csv sink writes when no directory is configured
const DefaultCSVDataDir = "~/.local/share/espn-lines"

// Sink types
const (
	SinkSheets   = "sheets"
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
	SinkDryRun   = "dry-run"
)

// Fetcher types
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

type Config struct {
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
	Fetcher     string        `yaml:"fetcher"`
	ChromePath  string        `yaml:"chrome_path"`
	MetricsFile string        `yaml:"metrics_file"`
	Log         LogConfig     `yaml:"log"`
	Sink        SinkConfig    `yaml:"sink"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SinkConfig struct {
	Type     string         `yaml:"type"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	CSV      CSVConfig      `yaml:"csv"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SheetsConfig struct {
	SpreadsheetID   string   `yaml:"spreadsheet_id"`
	CredentialsFile string   `yaml:"credentials_file"`
	TokenFile       string   `yaml:"token_file"`
	Scopes          []string `yaml:"scopes"`
	Range           string   `yaml:"range"`
}

type CSVConfig struct {
	DataDir  string `yaml:"data_dir"`
	FileName string `yaml:"file_name"`
}

type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		BaseURL:   game.BaseURL,
		UserAgent: scraper.UserAgent,
		Timeout:   scraper.Timeout,
		Fetcher:   FetcherHTTP,
		Log:       LogConfig{Level: string(logger.LevelInfo)},
		Sink: SinkConfig{
			Type: SinkSheets,
			Sheets: SheetsConfig{
				CredentialsFile: "credentials.json",
				TokenFile:       "token.json",
				Scopes:          []string{sink.SpreadsheetsScope},
				Range:           sink.DefaultSheetsRange,
			},
			CSV: CSVConfig{
				DataDir:  DefaultCSVDataDir,
				FileName: sink.DefaultCSVName,
			},
			Postgres: PostgresConfig{
				Table: sink.DefaultPostgresTable,
			},
		},
	}
}

// Load reads configPath over the defaults and applies environment overrides.
// An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from ESPN_LINES_* environment variables
func (c *Config) ApplyEnv() {
	c.BaseURL = envOrDefault("ESPN_LINES_BASE_URL", c.BaseURL)
	c.UserAgent = envOrDefault("ESPN_LINES_USER_AGENT", c.UserAgent)
	c.Timeout = durationEnvOrDefault("ESPN_LINES_TIMEOUT", c.Timeout)
	c.Fetcher = envOrDefault("ESPN_LINES_FETCHER", c.Fetcher)
	c.ChromePath = envOrDefault("ESPN_LINES_CHROME_PATH", c.ChromePath)
	c.MetricsFile = envOrDefault("ESPN_LINES_METRICS_FILE", c.MetricsFile)
	c.Log.Level = envOrDefault("ESPN_LINES_LOG_LEVEL", c.Log.Level)

	c.Sink.Type = envOrDefault("ESPN_LINES_SINK", c.Sink.Type)
	c.Sink.Sheets.SpreadsheetID = envOrDefault("ESPN_LINES_SPREADSHEET_ID", c.Sink.Sheets.SpreadsheetID)
	c.Sink.Sheets.CredentialsFile = envOrDefault("ESPN_LINES_CREDENTIALS_FILE", c.Sink.Sheets.CredentialsFile)
	c.Sink.Sheets.TokenFile = envOrDefault("ESPN_LINES_TOKEN_FILE", c.Sink.Sheets.TokenFile)
	c.Sink.Sheets.Range = envOrDefault("ESPN_LINES_SHEET_RANGE", c.Sink.Sheets.Range)
	c.Sink.Sheets.Scopes = listEnvOrDefault("ESPN_LINES_SCOPES", c.Sink.Sheets.Scopes)
	c.Sink.CSV.DataDir = envOrDefault("ESPN_LINES_DATA_DIR", c.Sink.CSV.DataDir)
	c.Sink.Postgres.DSN = envOrDefault("ESPN_LINES_POSTGRES_DSN", c.Sink.Postgres.DSN)
	c.Sink.Postgres.Table = envOrDefault("ESPN_LINES_POSTGRES_TABLE", c.Sink.Postgres.Table)
}

// Validate checks the settings needed by the selected fetcher and sink
func (c *Config) Validate() error {
	var errs []error

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}

	switch c.Fetcher {
	case FetcherHTTP, FetcherBrowser:
	default:
		errs = append(errs, fmt.Errorf("invalid fetcher: %s (must be 'http' or 'browser')", c.Fetcher))
	}

	switch strings.ToLower(c.Sink.Type) {
	case SinkSheets:
		if c.Sink.Sheets.SpreadsheetID == "" {
			errs = append(errs, fmt.Errorf("sheets sink requires a spreadsheet ID"))
		}
		if c.Sink.Sheets.CredentialsFile == "" {
			errs = append(errs, fmt.Errorf("sheets sink requires a credentials file"))
		}
	case SinkCSV:
		if c.Sink.CSV.DataDir == "" {
			errs = append(errs, fmt.Errorf("csv sink requires a data directory"))
		}
	case SinkPostgres:
		if c.Sink.Postgres.DSN == "" {
			errs = append(errs, fmt.Errorf("postgres sink requires a DSN"))
		}
	case SinkDryRun:
	default:
		errs = append(errs, fmt.Errorf("invalid sink: %s (must be sheets, csv, postgres or dry-run)", c.Sink.Type))
	}

	return errors.Join(errs...)
}
