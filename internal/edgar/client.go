// Package edgar fetches XBRL companyfacts documents from SEC EDGAR.
package edgar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://data.sec.gov"

	companyFactsPath = "/api/xbrl/companyfacts/CIK%s.json"
)

// ErrNotFound marks a CIK with no companyfacts document. This is a normal
// per-entity outcome, distinct from transport failures.
var ErrNotFound = errors.New("edgar: companyfacts not found")

// FactsFetcher retrieves the raw companyfacts JSON for one entity.
type FactsFetcher interface {
	CompanyFacts(ctx context.Context, cik string) ([]byte, error)
}

// Options parameterise the EDGAR client. SEC requires a descriptive
// User-Agent and throttles aggressive clients, so both are mandatory knobs.
type Options struct {
	BaseURL    string
	UserAgent  string
	MaxRPS     float64
	Timeout    time.Duration
	MaxRetries int
	CacheDir   string
}

// Client is a rate-limited, retrying EDGAR data client with an optional
// local JSON cache.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewClient constructs an EDGAR client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rps := opts.MaxRPS
	if rps <= 0 {
		rps = 3
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "edgar_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		baseURL: baseURL,
	}
}

// NormalizeCIK reduces a raw CIK to its canonical 10-digit zero-padded form.
func NormalizeCIK(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	// Spreadsheet exports sometimes carry numeric CIKs as "320193.0".
	s = strings.TrimSuffix(s, ".0")
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("edgar: cik must be numeric, got %q", raw)
		}
	}
	if len(s) > 10 {
		return "", fmt.Errorf("edgar: cik %q exceeds 10 digits", raw)
	}
	return strings.Repeat("0", 10-len(s)) + s, nil
}

// CompanyFacts returns the raw companyfacts JSON for a CIK, serving from the
// local cache when configured and populating it after a successful fetch.
func (c *Client) CompanyFacts(ctx context.Context, cik string) ([]byte, error) {
	cik10, err := NormalizeCIK(cik)
	if err != nil {
		return nil, err
	}

	if path, ok := c.cachePath(cik10); ok {
		if data, err := os.ReadFile(path); err == nil {
			c.logger.Debug().Str("cik", cik10).Msg("companyfacts served from cache")
			return data, nil
		}
	}

	url := c.baseURL + fmt.Sprintf(companyFactsPath, cik10)
	data, err := c.getWithRetry(ctx, url)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("cik %s: %w", cik10, ErrNotFound)
		}
		return nil, err
	}

	if path, ok := c.cachePath(cik10); ok {
		if err := writeCacheFile(path, data); err != nil {
			c.logger.Warn().Err(err).Str("cik", cik10).Msg("failed to write cache file")
		}
	}

	return data, nil
}

// Cached reports whether a companyfacts document for the CIK is already in
// the local cache.
func (c *Client) Cached(cik string) bool {
	cik10, err := NormalizeCIK(cik)
	if err != nil {
		return false
	}
	path, ok := c.cachePath(cik10)
	if !ok {
		return false
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}

func (c *Client) cachePath(cik10 string) (string, bool) {
	if c.opts.CacheDir == "" {
		return "", false
	}
	return filepath.Join(c.opts.CacheDir, "CIK"+cik10+".json"), true
}

func writeCacheFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Client) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	attempts := c.opts.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		data, retryable, err := c.getOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		c.logger.Debug().Err(err).Int("attempt", attempt+1).Str("url", url).Msg("retrying edgar request")
	}

	return nil, fmt.Errorf("edgar: giving up after %d attempts: %w", attempts, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) (data []byte, retryable bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	c.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("edgar request")

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("edgar: http %d from %s", resp.StatusCode, url)
	default:
		return nil, false, fmt.Errorf("edgar: http %d from %s", resp.StatusCode, url)
	}
}

// sleepBackoff waits 0.5s·2^(attempt−1) plus jitter, capped at 8s.
func sleepBackoff(ctx context.Context, attempt int) error {
	delay := 500 * time.Millisecond << (attempt - 1)
	if delay > 8*time.Second {
		delay = 8 * time.Second
	}
	delay += time.Duration(rand.Int63n(int64(250 * time.Millisecond)))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ FactsFetcher = (*Client)(nil)
