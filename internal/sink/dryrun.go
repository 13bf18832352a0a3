package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/espn-lines/internal/game"
)

// DryRunSink prints what would be appended without writing anywhere
type DryRunSink struct {
	w     io.Writer
	calls int
}

// NewDryRunSink creates a dry-run sink writing to w (stdout if nil)
func NewDryRunSink(w io.Writer) *DryRunSink {
	if w == nil {
		w = os.Stdout
	}
	return &DryRunSink{w: w}
}

// Name returns "dry-run"
func (s *DryRunSink) Name() string { return "dry-run" }

// Append prints the rows as tab-separated lines
func (s *DryRunSink) Append(ctx context.Context, rows []game.Row) error {
	s.calls++
	fmt.Fprintf(s.w, "--- Append %d (%d rows) ---\n", s.calls, len(rows))
	for _, row := range rows {
		fmt.Fprintln(s.w, strings.Join(row.Strings(), "\t"))
	}
	return nil
}
