package sink

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/lib/pq"

	"github.com/pfrederiksen/espn-lines/internal/game"
)

// DefaultPostgresTable is the table used when none is configured
const DefaultPostgresTable = "game_lines"

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Ensure PostgresSink implements Sink
var _ Sink = (*PostgresSink)(nil)

// PostgresConfig holds the PostgreSQL sink settings
type PostgresConfig struct {
	DSN   string
	Table string
}

// PostgresSink appends rows to a PostgreSQL table
type PostgresSink struct {
	db    *sql.DB
	table string
}

// NewPostgresSink connects to PostgreSQL and creates the table if it does not exist
func NewPostgresSink(ctx context.Context, cfg PostgresConfig) (*PostgresSink, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}
	if cfg.Table == "" {
		cfg.Table = DefaultPostgresTable
	}
	if !tableNamePattern.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid postgres table name: %q", cfg.Table)
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &PostgresSink{db: db, table: cfg.Table}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return s, nil
}

func (s *PostgresSink) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		team_name TEXT NOT NULL,
		prediction_pct DOUBLE PRECISION NOT NULL,
		money_line DOUBLE PRECISION NOT NULL,
		game_id VARCHAR(32) NOT NULL,
		league VARCHAR(16) NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, pq.QuoteIdentifier(s.table))

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Name returns "postgres"
func (s *PostgresSink) Name() string { return "postgres" }

// Append inserts rows in a single transaction
func (s *PostgresSink) Append(ctx context.Context, rows []game.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (team_name, prediction_pct, money_line, game_id, league) VALUES ($1, $2, $3, $4, $5)`,
		pq.QuoteIdentifier(s.table)))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.TeamName, row.Prediction, row.MoneyLine, row.GameID, string(row.League)); err != nil {
			return fmt.Errorf("inserting row for game %s: %w", row.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rows: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresSink) Close() error {
	return s.db.Close()
}
