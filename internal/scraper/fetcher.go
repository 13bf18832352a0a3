package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// UserAgent mimics a desktop browser; ESPN serves a stripped page to unknown agents
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	Timeout   = 30 * time.Second
)

// Fetcher retrieves the HTML for a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches pages with a plain GET request
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates an HTTPFetcher. Empty userAgent and zero timeout use the defaults.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	if userAgent == "" {
		userAgent = UserAgent
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Fetch GETs url and returns the body of a 200 response
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w: %w", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w: %w", ErrNetwork, err)
	}
	return body, nil
}

// BrowserFetcher renders pages in headless Chrome. The matchup predictor is filled in
// by script on some game pages, which a plain GET does not see.
type BrowserFetcher struct {
	userAgent string
	timeout   time.Duration
	execPath  string
}

// NewBrowserFetcher creates a BrowserFetcher. execPath may be empty to let chromedp
// locate Chrome on PATH.
func NewBrowserFetcher(userAgent string, timeout time.Duration, execPath string) *BrowserFetcher {
	if userAgent == "" {
		userAgent = UserAgent
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	return &BrowserFetcher{
		userAgent: userAgent,
		timeout:   timeout,
		execPath:  execPath,
	}
}

// Fetch navigates to url and returns the rendered document HTML
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.userAgent),
	)
	if f.execPath != "" {
		opts = append(opts, chromedp.ExecPath(f.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w: %w", ErrNetwork, err)
	}

	return []byte(html), nil
}
