package cli

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/espn-lines/internal/game"
)

// SortOrder represents the available sorting options for printed records.
// Rows reach the sink in listing order regardless.
type SortOrder string

const (
	SortBySchedule SortOrder = "schedule"
	SortByGame     SortOrder = "game"
	SortByTeam     SortOrder = "team"
	SortByValue    SortOrder = "value"
)

func validSortOrder(s SortOrder) bool {
	switch s {
	case SortBySchedule, SortByGame, SortByTeam, SortByValue:
		return true
	}
	return false
}

// sortRecords sorts records in place. SortBySchedule keeps listing order.
func sortRecords(records []*game.Record, order SortOrder) {
	switch order {
	case SortByGame:
		sort.SliceStable(records, func(i, j int) bool {
			return compareGameIDs(records[i].GameID, records[j].GameID)
		})
	case SortByTeam:
		sort.SliceStable(records, func(i, j int) bool {
			a, b := strings.ToLower(records[i].TeamOneName), strings.ToLower(records[j].TeamOneName)
			if a != b {
				return a < b
			}
			return compareGameIDs(records[i].GameID, records[j].GameID)
		})
	case SortByValue:
		sort.SliceStable(records, func(i, j int) bool {
			return bestValue(records[i]) > bestValue(records[j])
		})
	}
}

// compareGameIDs orders numeric IDs numerically, and anything else after them as text
func compareGameIDs(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

func bestValue(r *game.Record) float64 {
	return math.Max(r.TeamOneWinPerLine, r.TeamTwoWinPerLine)
}
