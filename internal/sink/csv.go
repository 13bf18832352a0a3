package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/espn-lines/internal/game"
)

// DefaultCSVName is the file name used when none is configured
const DefaultCSVName = "game_lines.csv"

// CSVSink appends rows to a CSV file in a data directory
type CSVSink struct {
	path string
}

// NewCSVSink creates a CSVSink writing dataDir/name, creating dataDir if needed
func NewCSVSink(dataDir, name string) (*CSVSink, error) {
	dataDir, err := expandHome(dataDir)
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	if name == "" {
		name = DefaultCSVName
	}

	return &CSVSink{
		path: filepath.Join(dataDir, name),
	}, nil
}

// Name returns "csv"
func (s *CSVSink) Name() string { return "csv" }

// Path returns the file rows are appended to
func (s *CSVSink) Path() string { return s.path }

// Append writes rows at the end of the file. A header is written when the file is new.
func (s *CSVSink) Append(ctx context.Context, rows []game.Row) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening csv file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading csv file info: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row.Strings()); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv file: %w", err)
	}
	return nil
}

// expandHome expands a leading ~/ to the user's home directory
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
