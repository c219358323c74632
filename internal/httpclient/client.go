// Package httpclient builds the retrying HTTP clients used to talk to
// upstream APIs.
package httpclient

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Defaults applied by [New] to zero fields.
const (
	DefaultRetryMax = 3
	DefaultWaitMin  = 500 * time.Millisecond
	DefaultWaitMax  = 8 * time.Second
	DefaultTimeout  = 30 * time.Second
)

// Config tunes a client. A negative RetryMax disables retries.
type Config struct {
	RetryMax int
	WaitMin  time.Duration
	WaitMax  time.Duration
	Timeout  time.Duration
	Logger   *slog.Logger
}

// New returns a client that retries transport errors and 429 responses
// with exponential backoff, honoring Retry-After. Once attempts are
// exhausted the last response is handed back unchanged so callers can map
// its status.
func New(cfg Config) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = DefaultRetryMax
	if cfg.RetryMax > 0 {
		c.RetryMax = cfg.RetryMax
	} else if cfg.RetryMax < 0 {
		c.RetryMax = 0
	}
	c.RetryWaitMin = or(cfg.WaitMin, DefaultWaitMin)
	c.RetryWaitMax = or(cfg.WaitMax, DefaultWaitMax)
	c.HTTPClient.Timeout = or(cfg.Timeout, DefaultTimeout)
	c.CheckRetry = RetryPolicy
	c.Backoff = retryablehttp.DefaultBackoff
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// *slog.Logger satisfies retryablehttp.LeveledLogger.
	c.Logger = nil
	if cfg.Logger != nil {
		c.Logger = cfg.Logger
	}
	return c
}

// RetryPolicy retries recoverable transport errors and 429 responses only.
// Every other status is final.
func RetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return resp.StatusCode == http.StatusTooManyRequests, nil
}

func or(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
