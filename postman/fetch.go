package postman

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/porticus-lab/go-apidoc-pdf/internal/httpclient"
)

// DefaultBaseURL is the Postman API endpoint.
const DefaultBaseURL = "https://api.getpostman.com"

const maxResponseBytes = 32 << 20

var (
	// ErrMissingAPIKey is returned when no Postman API key is configured.
	ErrMissingAPIKey = errors.New("postman: API key is not configured")

	// ErrMissingUID is returned when no collection id was given.
	ErrMissingUID = errors.New("postman: collection uid is missing")
)

// APIError is a non-2xx answer from the Postman API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if body == "" {
		body = "No body"
	}
	return fmt.Sprintf("Postman API %d: %s", e.StatusCode, body)
}

// Fetcher downloads collections from the Postman API.
type Fetcher struct {
	client  *retryablehttp.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// FetcherOption configures a [Fetcher].
type FetcherOption func(*Fetcher)

// WithBaseURL points the fetcher at another API host.
func WithBaseURL(u string) FetcherOption {
	return func(f *Fetcher) {
		if u != "" {
			f.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPConfig replaces the retry and timeout settings.
func WithHTTPConfig(cfg httpclient.Config) FetcherOption {
	return func(f *Fetcher) {
		if cfg.Logger == nil {
			cfg.Logger = f.logger
		}
		f.client = httpclient.New(cfg)
	}
}

// WithFetchLogger sets the logger for request failures and retries.
func WithFetchLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
			f.client.Logger = l
		}
	}
}

// NewFetcher returns a Fetcher authenticating with apiKey.
func NewFetcher(apiKey string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		logger:  slog.Default(),
	}
	f.client = httpclient.New(httpclient.Config{Logger: f.logger})
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch downloads and parses the collection with the given uid.
func (f *Fetcher) Fetch(ctx context.Context, uid string) (*Collection, error) {
	if f.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrMissingUID
	}

	endpoint := f.baseURL + "/collections/" + url.PathEscape(uid)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("postman: %w", err)
	}
	req.Header.Set("X-Api-Key", f.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postman: fetching collection %s: %w", uid, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("postman: reading collection %s: %w", uid, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.WarnContext(ctx, "postman API error", "status", resp.StatusCode, "collection", uid)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c, err := Parse(body)
	if err != nil {
		f.logger.WarnContext(ctx, "invalid JSON from postman", "collection", uid, "error", err)
		return nil, err
	}
	return c, nil
}
