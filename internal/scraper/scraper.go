package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pfrederiksen/espn-lines/internal/game"
	"github.com/pfrederiksen/espn-lines/internal/metrics"
)

// gameIDPattern extracts the numeric identifier from a game link
var gameIDPattern = regexp.MustCompile(`gameId/(\d+)`)

// Scraper handles fetching and parsing ESPN schedule and game pages
type Scraper struct {
	fetcher Fetcher
	baseURL string
	layout  Layout
	log     *zap.Logger
	metrics *metrics.Recorder
}

// Option configures a Scraper
type Option func(*Scraper)

// WithFetcher replaces the default HTTP fetcher
func WithFetcher(f Fetcher) Option {
	return func(s *Scraper) { s.fetcher = f }
}

// WithBaseURL points the URL templates at another host
func WithBaseURL(base string) Option {
	return func(s *Scraper) { s.baseURL = base }
}

// WithLayout replaces the game page layout
func WithLayout(l Layout) Option {
	return func(s *Scraper) { s.layout = l }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Scraper) { s.metrics = m }
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		fetcher: NewHTTPFetcher(UserAgent, Timeout),
		baseURL: game.BaseURL,
		layout:  DefaultLayout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GameURL builds the game page URL for ref on the scraper's host
func (s *Scraper) GameURL(ref game.Reference) (string, error) {
	return ref.URLAt(s.baseURL)
}

// ListGames returns the game identifiers on the league's schedule page for dateKey,
// in page order with repeats kept. Any failure is logged and yields an empty result.
func (s *Scraper) ListGames(ctx context.Context, league game.League, dateKey string) []string {
	ids, err := s.FetchGameIDs(ctx, league, dateKey)
	if err != nil {
		s.log.Warn("failed to list games",
			zap.String("league", string(league)),
			zap.String("date_key", dateKey),
			zap.Error(err))
		return []string{}
	}

	s.log.Info("listed games",
		zap.String("league", string(league)),
		zap.String("date_key", dateKey),
		zap.Int("count", len(ids)))
	return ids
}

// FetchGameIDs fetches and parses the schedule page. An unknown league fails
// before any request is made.
func (s *Scraper) FetchGameIDs(ctx context.Context, league game.League, dateKey string) ([]string, error) {
	url, err := league.ScheduleURLAt(s.baseURL, dateKey)
	if err != nil {
		return nil, err
	}

	s.log.Debug("fetching schedule", zap.String("url", url))

	start := time.Now()
	body, err := s.fetcher.Fetch(ctx, url)
	s.metrics.ObserveFetch("schedule", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching schedule page: %w", err)
	}

	ids, err := parseGameIDs(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	s.metrics.GamesListed(string(league), len(ids))
	return ids, nil
}

// parseGameIDs extracts the ID from every schedule anchor that links to a game
func parseGameIDs(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w: %w", ErrParse, err)
	}

	ids := make([]string, 0)
	doc.Find(ScheduleLinkSelector).Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.Contains(href, "gameId") {
			return
		}

		if id := extractGameID(href); id != "" {
			ids = append(ids, id)
		}
	})

	return ids, nil
}

// extractGameID returns the numeric game identifier in s, or "" if there is none
func extractGameID(s string) string {
	if matches := gameIDPattern.FindStringSubmatch(s); matches != nil {
		return matches[1]
	}
	return ""
}

func trimText(s string) string {
	return strings.TrimSpace(s)
}
