package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.GamesListed("NBA", 3)
	r.GamesListed("NCAAW", 2)
	r.GameExtracted("NBA")
	r.GameExtracted("NBA")
	r.ExtractFailed(ReasonLayout)
	r.RowsAppended("csv", 4)
	r.SinkFailed("csv")

	if got := testutil.ToFloat64(r.listed.WithLabelValues("NBA")); got != 3 {
		t.Errorf("games listed for NBA = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.extracted.WithLabelValues("NBA")); got != 2 {
		t.Errorf("games extracted for NBA = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.failed.WithLabelValues(ReasonLayout)); got != 1 {
		t.Errorf("layout failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.rowsAppended.WithLabelValues("csv")); got != 4 {
		t.Errorf("rows appended = %v, want 4", got)
	}
}

func TestRecorder_Snapshot(t *testing.T) {
	r := New()

	r.GamesListed("NBA", 3)
	r.GamesListed("NCAAM", 1)
	r.ObserveFetch("schedule", 150*time.Millisecond)
	r.ObserveFetch("game", 2*time.Second)
	r.ObserveFetch("game", time.Second)

	snapshot, err := r.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}

	if got := snapshot["espn_lines_games_listed_total"]; got != 4 {
		t.Errorf("games_listed_total = %v, want 4", got)
	}
	if got := snapshot["espn_lines_fetch_duration_seconds_count"]; got != 3 {
		t.Errorf("fetch_duration_seconds_count = %v, want 3", got)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder

	// Should not panic
	r.GamesListed("NBA", 1)
	r.GameExtracted("NBA")
	r.ExtractFailed(ReasonParse)
	r.RowsAppended("sheets", 2)
	r.SinkFailed("sheets")
	r.ObserveFetch("game", time.Second)

	snapshot, err := r.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(snapshot) != 0 {
		t.Errorf("Snapshot() on nil recorder = %v, want empty", snapshot)
	}
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); err != nil {
		t.Errorf("WriteTextfile() on nil recorder error: %v", err)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.GameExtracted("NCAAW")

	path := filepath.Join(t.TempDir(), "espn_lines.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading textfile: %v", err)
	}
	if !strings.Contains(string(data), `espn_lines_games_extracted_total{league="NCAAW"} 1`) {
		t.Errorf("textfile missing extracted counter:\n%s", data)
	}
}
