package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/pfrederiksen/espn-lines/internal/game"
	"github.com/pfrederiksen/espn-lines/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// countingFetcher serves canned pages and records every requested URL
type countingFetcher struct {
	pages map[string]string
	err   error
	urls  []string
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.pages[url]
	if !ok {
		return nil, ErrHTTPStatus
	}
	return []byte(body), nil
}

func TestFetchGameIDs(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantErr     error
		wantIDs     []string
	}{
		{
			name: "anchors with and without game IDs",
			htmlContent: `
				<html>
					<body>
						<a class="AnchorLink" href="/nba/game/_/gameId/12345/celtics-knicks">7:30 PM</a>
						<a class="AnchorLink" href="/nba/game/_/gameId/67890/lakers-suns">10:00 PM</a>
						<a class="AnchorLink" href="/nba/team/_/name/bos/boston-celtics">Boston</a>
					</body>
				</html>
			`,
			statusCode: http.StatusOK,
			wantIDs:    []string{"12345", "67890"},
		},
		{
			name:        "HTTP error",
			htmlContent: "",
			statusCode:  http.StatusNotFound,
			wantErr:     ErrHTTPStatus,
		},
		{
			name:        "empty page",
			htmlContent: `<html><body><p>No games scheduled</p></body></html>`,
			statusCode:  http.StatusOK,
			wantIDs:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// Verify a browser User-Agent is sent
				if userAgent := r.Header.Get("User-Agent"); !strings.Contains(userAgent, "Mozilla/5.0") {
					t.Errorf("User-Agent = %q, should contain 'Mozilla/5.0'", userAgent)
				}
				gotPath = r.URL.Path

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			s := New(WithBaseURL(server.URL))
			ids, err := s.FetchGameIDs(context.Background(), game.NBA, "20240115")

			if gotPath != "/nba/schedule/_/date/20240115" {
				t.Errorf("request path = %q, want /nba/schedule/_/date/20240115", gotPath)
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FetchGameIDs() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchGameIDs() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("FetchGameIDs() = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestListGames_EndToEnd(t *testing.T) {
	listing := `
		<a class="AnchorLink" href="https://www.espn.com/nba/game/_/gameId/12345">Game one</a>
		<a class="AnchorLink" href="https://www.espn.com/nba/game/_/gameId/67890">Game two</a>
		<a class="AnchorLink" href="https://www.espn.com/nba/standings">Standings</a>
	`
	f := &countingFetcher{pages: map[string]string{
		"https://www.espn.com/nba/schedule/_/date/20240115": listing,
	}}

	s := New(WithFetcher(f))
	ids := s.ListGames(context.Background(), game.NBA, "20240115")

	if want := []string{"12345", "67890"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ListGames() = %v, want %v", ids, want)
	}
	if len(f.urls) != 1 {
		t.Errorf("ListGames() made %d requests, want 1", len(f.urls))
	}
}

func TestListGames_UnknownLeague(t *testing.T) {
	f := &countingFetcher{}
	s := New(WithFetcher(f))

	ids := s.ListGames(context.Background(), game.League("NHL"), "20240115")

	if ids == nil || len(ids) != 0 {
		t.Errorf("ListGames() = %v, want empty non-nil slice", ids)
	}
	if len(f.urls) != 0 {
		t.Errorf("ListGames() made %d requests for unknown league, want 0", len(f.urls))
	}

	if _, err := s.FetchGameIDs(context.Background(), game.Unknown, "20240115"); !errors.Is(err, ErrUnknownLeague) {
		t.Errorf("FetchGameIDs() error = %v, want ErrUnknownLeague", err)
	}
}

func TestListGames_FetchFailure(t *testing.T) {
	f := &countingFetcher{err: ErrNetwork}
	s := New(WithFetcher(f))

	ids := s.ListGames(context.Background(), game.NCAAM, "20240115")
	if len(ids) != 0 {
		t.Errorf("ListGames() = %v, want empty", ids)
	}
	if len(f.urls) != 1 || f.urls[0] != "https://www.espn.com/mens-college-basketball/schedule/_/date/20240115" {
		t.Errorf("requested urls = %v", f.urls)
	}
}

func TestParseGameIDs_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "duplicates are preserved in page order",
			html: `
				<a class="AnchorLink" href="/nba/game/_/gameId/3">a</a>
				<a class="AnchorLink" href="/nba/game/_/gameId/1">b</a>
				<a class="AnchorLink" href="/nba/game/_/gameId/3">c</a>
			`,
			want: []string{"3", "1", "3"},
		},
		{
			name: "anchors without AnchorLink class ignored",
			html: `
				<a href="/nba/game/_/gameId/111">plain</a>
				<a class="AnchorLink" href="/nba/game/_/gameId/222">anchor</a>
			`,
			want: []string{"222"},
		},
		{
			name: "missing href ignored",
			html: `<a class="AnchorLink">no href</a>`,
			want: []string{},
		},
		{
			name: "gameId marker without digits ignored",
			html: `<a class="AnchorLink" href="/nba/game/_/gameId/">broken</a>`,
			want: []string{},
		},
		{
			name: "extra classes still match",
			html: `<a class="AnchorLink Table__Team" href="/womens-college-basketball/game/_/gameId/401585601/uconn-nova">UConn</a>`,
			want: []string{"401585601"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGameIDs(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("parseGameIDs() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseGameIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseGameIDs_Fixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/schedule_nba.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	ids, err := parseGameIDs(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parseGameIDs failed: %v", err)
	}

	want := []string{"401584876", "401584876", "401584877", "401584878"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("parseGameIDs() = %v, want %v", ids, want)
	}
}

func TestFetchGameIDs_RecordsMetrics(t *testing.T) {
	f := &countingFetcher{pages: map[string]string{
		"https://www.espn.com/womens-college-basketball/schedule/_/date/20240115": `
			<a class="AnchorLink" href="/womens-college-basketball/game/_/gameId/1">x</a>
			<a class="AnchorLink" href="/womens-college-basketball/game/_/gameId/2">y</a>
		`,
	}}
	m := metrics.New()
	s := New(WithFetcher(f), WithMetrics(m))

	if _, err := s.FetchGameIDs(context.Background(), game.NCAAW, "20240115"); err != nil {
		t.Fatalf("FetchGameIDs() error: %v", err)
	}

	snapshot, err := m.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if got := snapshot["espn_lines_games_listed_total"]; got != 2 {
		t.Errorf("games listed = %v, want 2", got)
	}
	got, err := testutil.GatherAndCount(m.Registry(), "espn_lines_fetch_duration_seconds")
	if err != nil {
		t.Fatalf("GatherAndCount() error: %v", err)
	}
	if got != 1 {
		t.Errorf("fetch duration series = %d, want 1", got)
	}
}

func TestNew(t *testing.T) {
	s := New()

	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.fetcher == nil {
		t.Error("scraper fetcher is nil")
	}
	if s.baseURL != game.BaseURL {
		t.Errorf("scraper baseURL = %q, want %q", s.baseURL, game.BaseURL)
	}
	if s.log == nil {
		t.Error("scraper logger is nil")
	}

	url, err := s.GameURL(game.Reference{League: game.NBA, GameID: "12345"})
	if err != nil {
		t.Fatalf("GameURL() error: %v", err)
	}
	if url != "https://www.espn.com/nba/game/_/gameId/12345/" {
		t.Errorf("GameURL() = %q", url)
	}
}

func TestExtractGameID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.espn.com/nba/game/_/gameId/401584876/rockets-celtics", "401584876"},
		{"/nba/game/_/gameId/12345", "12345"},
		{"/nba/game/_/gameId/", ""},
		{"/nba/schedule", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := extractGameID(tt.input); got != tt.want {
				t.Errorf("extractGameID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
