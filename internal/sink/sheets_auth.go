package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// authorizedClient builds an HTTP client from the credentials file. Service account keys
// are used directly. OAuth client secrets use the cached token file, or run the consent
// flow on in/out and cache the result.
func authorizedClient(ctx context.Context, cfg SheetsConfig, in io.Reader, out io.Writer) (*http.Client, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	if probe.Type == "service_account" {
		jwtCfg, err := google.JWTConfigFromJSON(data, cfg.Scopes...)
		if err != nil {
			return nil, fmt.Errorf("parsing service account key: %w", err)
		}
		return jwtCfg.Client(ctx), nil
	}

	oauthCfg, err := google.ConfigFromJSON(data, cfg.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret file: %w", err)
	}

	tok, err := loadToken(cfg.TokenFile)
	if err != nil {
		tok, err = tokenFromConsent(ctx, oauthCfg, in, out)
		if err != nil {
			return nil, err
		}
		if err := saveToken(cfg.TokenFile, tok); err != nil {
			return nil, err
		}
	}

	ts := &savingTokenSource{
		base: oauthCfg.TokenSource(ctx, tok),
		path: cfg.TokenFile,
		last: tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

// tokenFromConsent prints the consent URL and exchanges the code the user pastes back
func tokenFromConsent(ctx context.Context, cfg *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following link in your browser, then paste the authorization code:\n%v\n", authURL)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && code == "" {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}

	tok, err := cfg.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// savingTokenSource writes refreshed tokens back to the token file
type savingTokenSource struct {
	base oauth2.TokenSource
	path string
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := saveToken(s.path, tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}
