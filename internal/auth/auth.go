// Package auth builds the Google credentials shared by the calendar and
// sheets clients. It only supports non-interactive service account
// authentication, with a token cache file kept between runs.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
	gsheet "google.golang.org/api/sheets/v4"
)

var (
	// ErrExpiredCredentials is returned when the cached token has expired and
	// would need an interactive refresh. The job cannot recover from it.
	ErrExpiredCredentials = errors.New("credentials expired")
	ErrMissingCredentials = errors.New("missing service account credentials")
)

// Scopes requested for every token.
var Scopes = []string{gcalendar.CalendarReadonlyScope, gsheet.SpreadsheetsScope}

type Options struct {
	ServiceAccountJSON string
	ServiceAccountFile string
	TokenCacheFile     string
}

type Provider struct {
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

func NewProvider(opts Options, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{opts: opts, logger: logger, now: time.Now}
}

// Credentials is the outcome of one authorization.
type Credentials struct {
	cached *oauth2.Token // Token found in the cache, nil when none
	source oauth2.TokenSource
	now    func() time.Time

	// ClientEmail is the service account identity, empty when the cached
	// token is used without a key.
	ClientEmail string
}

// IsValid reports whether the cached token can be used as is.
func (c *Credentials) IsValid() bool {
	return c.cached.Valid()
}

func (c *Credentials) IsExpired() bool {
	return c.cached != nil && !c.cached.Expiry.IsZero() && !c.cached.Expiry.After(c.now())
}

func (c *Credentials) CanRefresh() bool {
	return c.cached != nil && c.cached.RefreshToken != ""
}

func (c *Credentials) TokenSource() oauth2.TokenSource {
	return c.source
}

// Credentials loads the cached token and, unless it is still valid, falls
// back to the service account key. A cached token that expired but carries
// a refresh token yields ErrExpiredCredentials.
func (p *Provider) Credentials(ctx context.Context) (*Credentials, error) {
	creds := &Credentials{now: p.now}

	cached, err := p.readCache()
	if err != nil {
		p.logger.Warn("Token cache is unreadable, ignoring it", "path", p.opts.TokenCacheFile, "error", err)
	}
	creds.cached = cached

	if !creds.IsValid() && creds.IsExpired() && creds.CanRefresh() {
		p.logger.Error("Credentials expired", "path", p.opts.TokenCacheFile, "expiry", cached.Expiry)
		return nil, ErrExpiredCredentials
	}

	key, keyErr := p.serviceAccountKey()
	if keyErr != nil && !creds.IsValid() {
		return nil, keyErr
	}

	var base oauth2.TokenSource
	if keyErr == nil {
		jwt, err := google.JWTConfigFromJSON(key, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("parse service account key: %w", err)
		}
		creds.ClientEmail = jwt.Email
		base = jwt.TokenSource(ctx)
	}

	switch {
	case creds.IsValid() && base == nil:
		p.logger.Info("Using cached token", "expiry", cached.Expiry)
		creds.source = oauth2.StaticTokenSource(cached)
	case creds.IsValid():
		p.logger.Info("Using cached token", "expiry", cached.Expiry, "client_email", creds.ClientEmail)
		creds.source = p.caching(oauth2.ReuseTokenSource(cached, base), cached.AccessToken)
	default:
		p.logger.Info("Using service account credentials", "client_email", creds.ClientEmail)
		creds.source = p.caching(oauth2.ReuseTokenSource(nil, base), "")
	}
	return creds, nil
}

func (p *Provider) serviceAccountKey() ([]byte, error) {
	if j := strings.TrimSpace(p.opts.ServiceAccountJSON); j != "" {
		return []byte(j), nil
	}
	path := strings.TrimSpace(p.opts.ServiceAccountFile)
	if path == "" {
		return nil, ErrMissingCredentials
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", ErrMissingCredentials, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

// readCache returns nil without error when there is no cache file.
func (p *Provider) readCache() (*oauth2.Token, error) {
	if p.opts.TokenCacheFile == "" {
		return nil, nil
	}
	b, err := os.ReadFile(p.opts.TokenCacheFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, errors.New("token cache is empty")
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (p *Provider) caching(src oauth2.TokenSource, persisted string) oauth2.TokenSource {
	if p.opts.TokenCacheFile == "" {
		return src
	}
	return &cachingSource{src: src, path: p.opts.TokenCacheFile, last: persisted, logger: p.logger}
}

// cachingSource writes every newly minted token to the cache file so the
// next run can reuse it.
type cachingSource struct {
	src    oauth2.TokenSource
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *cachingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken == s.last {
		return tok, nil
	}
	if err := WriteToken(s.path, tok); err != nil {
		s.logger.Warn("Failed to save token cache", "path", s.path, "error", err)
		return tok, nil
	}
	s.last = tok.AccessToken
	return tok, nil
}

// WriteToken stores tok as JSON, readable only by the owner.
func WriteToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		f.Close()
		return fmt.Errorf("write token: %w", err)
	}
	return f.Close()
}
