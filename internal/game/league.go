package game

import (
	"errors"
	"fmt"
	"strings"
)

// BaseURL is the site root used by the schedule and game URL templates
const BaseURL = "https://www.espn.com"

// ErrUnknownLeague is returned when a league tag or menu choice is not recognized
var ErrUnknownLeague = errors.New("unknown league")

// League identifies one of the supported basketball leagues
type League string

const (
	NBA     League = "NBA"
	NCAAM   League = "NCAAM"
	NCAAW   League = "NCAAW"
	Unknown League = "Unknown"
)

// Leagues lists the supported leagues in operator menu order
var Leagues = []League{NBA, NCAAM, NCAAW}

// sitePaths holds the ESPN path segment for each league
var sitePaths = map[League]string{
	NBA:   "nba",
	NCAAM: "mens-college-basketball",
	NCAAW: "womens-college-basketball",
}

// ParseLeague accepts a league tag (case-insensitive) or a menu choice ("1", "2", "3")
func ParseLeague(s string) (League, error) {
	s = strings.TrimSpace(s)

	switch s {
	case "1":
		return NBA, nil
	case "2":
		return NCAAM, nil
	case "3":
		return NCAAW, nil
	}

	l := League(strings.ToUpper(s))
	if l.Valid() {
		return l, nil
	}
	return "", fmt.Errorf("%w: %q (choose from NBA, NCAAM, or NCAAW)", ErrUnknownLeague, s)
}

// Valid reports whether l is one of the supported leagues
func (l League) Valid() bool {
	_, ok := sitePaths[l]
	return ok
}

func (l League) String() string {
	return string(l)
}

// Path returns the ESPN path segment for the league, or "" if the league is not supported
func (l League) Path() string {
	return sitePaths[l]
}

// ScheduleURL builds the schedule listing URL for dateKey on the default site
func (l League) ScheduleURL(dateKey string) (string, error) {
	return l.ScheduleURLAt(BaseURL, dateKey)
}

// ScheduleURLAt builds the schedule listing URL for dateKey under base.
// dateKey is passed through as-is; its format is defined by the site.
func (l League) ScheduleURLAt(base, dateKey string) (string, error) {
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLeague, string(l))
	}
	return fmt.Sprintf("%s/%s/schedule/_/date/%s", strings.TrimRight(base, "/"), l.Path(), dateKey), nil
}

// GameURL builds the game detail URL for gameID on the default site
func (l League) GameURL(gameID string) (string, error) {
	return l.GameURLAt(BaseURL, gameID)
}

// GameURLAt builds the game detail URL for gameID under base
func (l League) GameURLAt(base, gameID string) (string, error) {
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLeague, string(l))
	}
	return fmt.Sprintf("%s/%s/game/_/gameId/%s/", strings.TrimRight(base, "/"), l.Path(), gameID), nil
}

// Classify determines the league a URL belongs to by substring match.
// The womens check must run before the mens check since one contains the other.
func Classify(url string) League {
	switch {
	case strings.Contains(url, "nba"):
		return NBA
	case strings.Contains(url, "womens-college-basketball"):
		return NCAAW
	case strings.Contains(url, "mens-college-basketball"):
		return NCAAM
	default:
		return Unknown
	}
}
