package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pfrederiksen/espn-lines/internal/game"
	"github.com/pfrederiksen/espn-lines/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time          `json:"checked_at"`
	League    game.League        `json:"league"`
	DateKey   string             `json:"date_key"`
	Sink      string             `json:"sink"`
	Records   []*game.Record     `json:"records"`
	Summary   pipeline.Summary   `json:"summary"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if len(result.Records) == 0 {
		fmt.Fprintf(w, "No games extracted for %s %s.\n", result.League, result.DateKey)
	}

	for _, rec := range result.Records {
		fmt.Fprintf(w, "%s: %s vs %s\n", rec.GameID, rec.TeamOneName, rec.TeamTwoName)
		fmt.Fprintf(w, "  %-24s %7s%%  %7s  %s\n", rec.TeamOneName,
			formatNumber(rec.TeamOnePrediction), formatLine(rec.HomeMoneyLine), formatNumber(rec.TeamOneWinPerLine))
		fmt.Fprintf(w, "  %-24s %7s%%  %7s  %s\n", rec.TeamTwoName,
			formatNumber(rec.TeamTwoPrediction), formatLine(rec.AwayMoneyLine), formatNumber(rec.TeamTwoWinPerLine))
		if verbose {
			fmt.Fprintf(w, "     URL: %s\n", rec.SourceURL)
			if rec.TeamOneAttribute != nil {
				fmt.Fprintf(w, "     %s: %s\n", rec.TeamOneName, *rec.TeamOneAttribute)
			}
			if rec.TeamTwoAttribute != nil {
				fmt.Fprintf(w, "     %s: %s\n", rec.TeamTwoName, *rec.TeamTwoAttribute)
			}
		}
	}

	s := result.Summary
	fmt.Fprintf(w, "\nTotal: %d listed, %d extracted, %d failed\n", s.Listed, s.Extracted, s.Failed)
	if s.SinkFailures > 0 {
		fmt.Fprintf(w, "%s: %d rows appended, %d appends failed\n", result.Sink, s.RowsAppended, s.SinkFailures)
	} else {
		fmt.Fprintf(w, "%s updated successfully: %d rows appended\n", result.Sink, s.RowsAppended)
	}

	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatLine prints money lines the way sportsbooks do, with an explicit plus sign
func formatLine(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}
