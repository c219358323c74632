package describe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/go-apidoc-pdf/internal/httpclient"
)

func newTestClient(url string) *Client {
	return New("sk-test",
		WithBaseURL(url),
		WithHTTPConfig(httpclient.Config{RetryMax: 2, WaitMin: time.Millisecond, WaitMax: 2 * time.Millisecond}),
	)
}

var pingInput = Input{
	Endpoint:     "https://x/ping",
	Method:       "GET",
	ResponseData: json.RawMessage(`{"ok":true}`),
}

func TestDescribe(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
		assert.InDelta(t, DefaultTemperature, req.Temperature, 1e-9)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "Endpoint: GET https://x/ping")

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Checks liveness."}}]}`))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Describe(context.Background(), pingInput)
	require.NoError(t, err)
	assert.Equal(t, "Checks liveness.", got)
}

func TestDescribeRetriesRateLimits(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Describe(context.Background(), pingInput)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.EqualValues(t, 2, attempts.Load())
}

func TestDescribeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, ErrUnauthorized},
		{"malformed", http.StatusOK, `not json`, ErrBadResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Describe(context.Background(), pingInput)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("generic upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Describe(context.Background(), pingInput)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.NotErrorIs(t, err, ErrRateLimited)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := New("").Describe(context.Background(), pingInput)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestDescribeFallback(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Describe(context.Background(), pingInput)
	require.NoError(t, err)
	assert.Equal(t, Fallback, got)
}

func TestPrompt(t *testing.T) {
	p := Prompt(Input{Endpoint: "/users", Method: "POST", RequestBody: json.RawMessage(`{"name":"ada"}`)})
	assert.Contains(t, p, "Endpoint: POST /users")
	assert.Contains(t, p, "Request Body: {\n  \"name\": \"ada\"\n}")
	assert.Contains(t, p, "Response Data: null")
	assert.Contains(t, p, "5. Common use cases")
}
