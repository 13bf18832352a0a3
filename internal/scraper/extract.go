package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pfrederiksen/espn-lines/internal/game"
)

// EvenMoneyLine is the value of an "even" line
const EvenMoneyLine = 100

// ExtractGame fetches and parses a game page. It returns nil when the page could not
// be fetched or any required field is missing or malformed; the cause is logged.
func (s *Scraper) ExtractGame(ctx context.Context, url string) *game.Record {
	rec, err := s.FetchGame(ctx, url)
	if err != nil {
		s.log.Warn("failed to extract game", zap.String("url", url), zap.Error(err))
		s.metrics.ExtractFailed(failureReason(err))
		return nil
	}

	s.log.Debug("extracted game",
		zap.String("game_id", rec.GameID),
		zap.String("team_one", rec.TeamOneName),
		zap.String("team_two", rec.TeamTwoName))
	s.metrics.GameExtracted(string(rec.League))
	return rec
}

// FetchGame fetches and parses a game page, returning the first error encountered
func (s *Scraper) FetchGame(ctx context.Context, url string) (*game.Record, error) {
	start := time.Now()
	body, err := s.fetcher.Fetch(ctx, url)
	s.metrics.ObserveFetch("game", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching game page: %w", err)
	}

	return s.parseGame(bytes.NewReader(body), url)
}

// parseGame extracts a record from game page HTML
func (s *Scraper) parseGame(r io.Reader, sourceURL string) (*game.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w: %w", ErrParse, err)
	}

	p := newPage(doc, s.layout)
	if err := p.checkCounts(); err != nil {
		return nil, err
	}

	rec := &game.Record{
		GameID:    extractGameID(sourceURL),
		League:    game.Classify(sourceURL),
		SourceURL: sourceURL,
	}

	if rec.TeamOneName, err = p.required(FieldTeamOneName); err != nil {
		return nil, err
	}
	if rec.TeamTwoName, err = p.required(FieldTeamTwoName); err != nil {
		return nil, err
	}
	if rec.TeamOneAttribute, err = p.optional(FieldTeamOneAttribute); err != nil {
		return nil, err
	}
	if rec.TeamTwoAttribute, err = p.optional(FieldTeamTwoAttribute); err != nil {
		return nil, err
	}

	if rec.HomeMoneyLine, err = p.number(FieldHomeMoneyLine, parseMoneyLine); err != nil {
		return nil, err
	}
	if rec.AwayMoneyLine, err = p.number(FieldAwayMoneyLine, parseMoneyLine); err != nil {
		return nil, err
	}
	if rec.TeamOnePrediction, err = p.number(FieldTeamOnePrediction, parsePrediction); err != nil {
		return nil, err
	}
	if rec.TeamTwoPrediction, err = p.number(FieldTeamTwoPrediction, parsePrediction); err != nil {
		return nil, err
	}

	rec.TeamOneWinPerLine = game.WinPerLine(rec.TeamOnePrediction, rec.HomeMoneyLine)
	rec.TeamTwoWinPerLine = game.WinPerLine(rec.TeamTwoPrediction, rec.AwayMoneyLine)

	return rec, nil
}

func (p *page) required(field Field) (string, error) {
	value, _, err := p.text(field)
	return value, err
}

func (p *page) optional(field Field) (*string, error) {
	value, ok, err := p.text(field)
	if err != nil || !ok {
		return nil, err
	}
	return &value, nil
}

func (p *page) number(field Field, parse func(string) (float64, error)) (float64, error) {
	value, err := p.required(field)
	if err != nil {
		return 0, err
	}

	n, err := parse(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return n, nil
}

// parseMoneyLine parses a signed money line. "even" in any case is 100.
// Zero is rejected since the derived metric divides by the line.
func parseMoneyLine(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "even") {
		return EvenMoneyLine, nil
	}

	v, err := parseDecimal(text)
	if err != nil {
		return 0, fmt.Errorf("money line %q: %w", text, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("money line %q: %w: must be non-zero", text, ErrParse)
	}
	return v, nil
}

// parsePrediction parses a percentage such as "65.5%"
func parsePrediction(text string) (float64, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))

	v, err := parseDecimal(trimmed)
	if err != nil {
		return 0, fmt.Errorf("prediction %q: %w", text, err)
	}
	return v, nil
}

// decimalPattern is an optional sign, digits and an optional fraction.
// strconv.ParseFloat alone would also take hex floats, exponents, NaN and Inf.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// parseDecimal parses a signed decimal number
func parseDecimal(s string) (float64, error) {
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrParse, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return v, nil
}
