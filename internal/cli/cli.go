package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pfrederiksen/espn-lines/internal/config"
	"github.com/pfrederiksen/espn-lines/internal/game"
	"github.com/pfrederiksen/espn-lines/internal/logger"
	"github.com/pfrederiksen/espn-lines/internal/metrics"
	"github.com/pfrederiksen/espn-lines/internal/pipeline"
	"github.com/pfrederiksen/espn-lines/internal/scraper"
	"github.com/pfrederiksen/espn-lines/internal/sink"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagLeague        string
	flagDate          string
	flagConfig        string
	flagSink          string
	flagDataDir       string
	flagSpreadsheetID string
	flagFetcher       string
	flagFormat        string
	flagSort          string
	flagMetricsFile   string
	flagDryRun        bool
	flagVerbose       bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "espn-lines",
		Short: "Record ESPN basketball money lines and win predictions",
		Long: `A CLI tool that lists a league's ESPN schedule for a date, extracts each game's
money lines and matchup predictions, and appends one row per team to a sink
(Google Sheets by default). Missing --league or --date values are prompted for.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLines,
	}

	cmd.Flags().StringVar(&flagLeague, "league", "", "League: NBA, NCAAM, NCAAW or menu number 1-3 (prompted if empty)")
	cmd.Flags().StringVar(&flagDate, "date", "", "Schedule date segment, e.g. 20240115 (prompted if empty)")
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&flagSink, "sink", "", "Sink: sheets, csv, postgres or dry-run (overrides config)")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for the csv sink (overrides config)")
	cmd.Flags().StringVar(&flagSpreadsheetID, "spreadsheet-id", "", "Google Sheets spreadsheet ID (overrides config)")
	cmd.Flags().StringVar(&flagFetcher, "fetcher", "", "Page fetcher: http or browser (overrides config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortBySchedule), "Sort printed games by: schedule, game, team or value")
	cmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print rows instead of appending them (same as --sink dry-run)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runLines is the main command logic
func runLines(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	order := SortOrder(strings.ToLower(flagSort))
	if !validSortOrder(order) {
		return fmt.Errorf("invalid sort: %s (must be schedule, game, team or value)", flagSort)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log, err := logger.New(level, flagVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	// League and date come first so a bad choice aborts before anything touches the network
	prompt := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	league, dateKey, err := resolveTarget(prompt)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stdout := cmd.OutOrStdout()
	dryRunOut := stdout
	if format == FormatJSON {
		dryRunOut = cmd.ErrOrStderr()
	}

	out, closeSink, err := buildSink(ctx, cfg, dryRunOut)
	if err != nil {
		return fmt.Errorf("initializing %s sink: %w", cfg.Sink.Type, err)
	}
	defer closeSink()

	m := metrics.New()
	sc := scraper.New(
		scraper.WithFetcher(buildFetcher(cfg)),
		scraper.WithBaseURL(cfg.BaseURL),
		scraper.WithLogger(log),
		scraper.WithMetrics(m),
	)

	log.Info("starting run",
		zap.String("league", league.String()),
		zap.String("date", dateKey),
		zap.String("sink", out.Name()),
		zap.String("fetcher", cfg.Fetcher))

	records, summary := pipeline.New(sc, log, m).Run(ctx, out, league, dateKey)

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("failed to write metrics file", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}

	log.Info("run complete",
		zap.Int("listed", summary.Listed),
		zap.Int("extracted", summary.Extracted),
		zap.Int("failed", summary.Failed),
		zap.Int("rows_appended", summary.RowsAppended),
		zap.Int("sink_failures", summary.SinkFailures))

	sortRecords(records, order)

	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		League:    league,
		DateKey:   dateKey,
		Sink:      out.Name(),
		Records:   records,
		Summary:   summary,
	}
	if flagVerbose {
		if snap, err := m.Snapshot(); err == nil {
			result.Metrics = snap
		}
	}

	if err := WriteOutput(stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return ctx.Err()
}

// applyFlags layers explicitly set flags over the loaded configuration
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("sink") {
		cfg.Sink.Type = strings.ToLower(flagSink)
	}
	if flags.Changed("data-dir") {
		cfg.Sink.CSV.DataDir = flagDataDir
	}
	if flags.Changed("spreadsheet-id") {
		cfg.Sink.Sheets.SpreadsheetID = flagSpreadsheetID
	}
	if flags.Changed("fetcher") {
		cfg.Fetcher = strings.ToLower(flagFetcher)
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = flagMetricsFile
	}
	if flagDryRun {
		cfg.Sink.Type = config.SinkDryRun
	}
	if flagVerbose {
		cfg.Log.Level = string(logger.LevelDebug)
	}
}

// resolveTarget takes league and date from flags, prompting for whichever is missing
func resolveTarget(p *prompter) (game.League, string, error) {
	var league game.League
	var err error

	if flagLeague != "" {
		league, err = game.ParseLeague(flagLeague)
	} else {
		league, err = p.league()
	}
	if err != nil {
		return game.Unknown, "", err
	}

	dateKey := strings.TrimSpace(flagDate)
	if dateKey == "" {
		if dateKey, err = p.dateKey(); err != nil {
			return game.Unknown, "", err
		}
	}

	return league, dateKey, nil
}

func buildFetcher(cfg *config.Config) scraper.Fetcher {
	if cfg.Fetcher == config.FetcherBrowser {
		return scraper.NewBrowserFetcher(cfg.UserAgent, cfg.Timeout, cfg.ChromePath)
	}
	return scraper.NewHTTPFetcher(cfg.UserAgent, cfg.Timeout)
}

// buildSink constructs the configured sink and a function releasing its resources
func buildSink(ctx context.Context, cfg *config.Config, dryRunOut io.Writer) (sink.Sink, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Sink.Type) {
	case config.SinkSheets:
		s, err := sink.NewSheetsSink(ctx, sink.SheetsConfig{
			SpreadsheetID:   cfg.Sink.Sheets.SpreadsheetID,
			CredentialsFile: cfg.Sink.Sheets.CredentialsFile,
			TokenFile:       cfg.Sink.Sheets.TokenFile,
			Scopes:          cfg.Sink.Sheets.Scopes,
			Range:           cfg.Sink.Sheets.Range,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.SinkCSV:
		s, err := sink.NewCSVSink(cfg.Sink.CSV.DataDir, cfg.Sink.CSV.FileName)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.SinkPostgres:
		s, err := sink.NewPostgresSink(ctx, sink.PostgresConfig{
			DSN:   cfg.Sink.Postgres.DSN,
			Table: cfg.Sink.Postgres.Table,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.SinkDryRun:
		return sink.NewDryRunSink(dryRunOut), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown sink: %s", cfg.Sink.Type)
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
