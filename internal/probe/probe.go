// Package probe issues HTTP requests against the target API and captures raw
// results. The transport never decides what a failure is: any response status
// comes back as data, and only network-level breakage (DNS, connection
// refused, timeout) surfaces as an error. That inversion is the point of the
// suite: 400s, 422s, and 429s are expected outcomes to assert on, not
// exceptions to catch.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/NoodlesKamiSama/reap/internal/config"
	"github.com/NoodlesKamiSama/reap/internal/errs"
	"github.com/NoodlesKamiSama/reap/internal/logutil"
	"github.com/NoodlesKamiSama/reap/internal/obs"
	"github.com/NoodlesKamiSama/reap/internal/testdata"
)

// Result is the captured status/headers/body triple from one HTTP call.
// Read-only once returned.
type Result struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Field resolves a gjson path against the response body.
func (r *Result) Field(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// HasField reports whether path exists in the response body, null included.
func (r *Result) HasField(path string) bool {
	return r.Field(path).Exists()
}

// JSON decodes the response body into v.
func (r *Result) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errs.Wrap(errs.Internal, "response body is not valid JSON", err)
	}
	return nil
}

// StatusIn reports whether the response status is in the given allow-list.
func (r *Result) StatusIn(codes ...int) bool {
	for _, code := range codes {
		if r.StatusCode == code {
			return true
		}
	}
	return false
}

// Options is the per-call options bag for Do.
type Options struct {
	// Body is marshaled to JSON unless it is already []byte, string, or an
	// io.Reader.
	Body any
	// Headers are merged over the client's defaults; caller values win.
	Headers map[string]string
}

// Client issues probe requests against one base URL. Construct it from an
// explicit Config; it holds no global state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxBodyLog int
}

// NewClient builds a probe client for baseURL using the suite configuration
// for timeout, user agent, and log limits.
func NewClient(baseURL string, cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		userAgent:  cfg.UserAgent,
		maxBodyLog: cfg.MaxBodyLogBytes,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues one request and captures the raw response. The path is appended
// to the client's base URL. Default JSON headers and the suite's user-agent
// marker are merged under the caller's headers. Any HTTP status returns a
// Result and a nil error; only transport failures return an error, coded
// errs.Unavailable.
func (c *Client) Do(ctx context.Context, method, path string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	ctx = obs.WithCorrelation(ctx, obs.Correlation{RequestID: obs.NewRequestID()})
	log := obs.From(ctx)

	bodyReader, bodyBytes, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, fmt.Sprintf("build %s %s", method, url), err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	log.Debug("probe request",
		"method", method,
		"url", url,
		"headers", logutil.FormatHeadersForLog(req.Header),
		"body", logutil.FormatBodyForLog(req.Header.Get("Content-Type"), bodyBytes, c.maxBodyLog),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("probe transport failure", "method", method, "url", url, "error", err)
		return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("%s %s", method, url), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("probe response read failure", "method", method, "url", url, "error", err)
		return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("read response of %s %s", method, url), err)
	}

	log.Debug("probe response",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"body", logutil.FormatBodyForLog(resp.Header.Get("Content-Type"), respBody, c.maxBodyLog),
	)

	return &Result{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		Body:       respBody,
	}, nil
}

func encodeBody(body any) (io.Reader, []byte, error) {
	switch typed := body.(type) {
	case nil:
		return nil, nil, nil
	case io.Reader:
		return typed, nil, nil
	case []byte:
		return bytes.NewReader(typed), typed, nil
	case string:
		return strings.NewReader(typed), []byte(typed), nil
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, errs.Wrap(errs.InvalidArgument, "marshal request body", err)
		}
		return bytes.NewReader(encoded), encoded, nil
	}
}

// freshSignupBody synthesizes a unique user-creation payload so a burst of
// POSTs cannot all be rejected as duplicates and masquerade as rate limiting.
func freshSignupBody(iteration int) map[string]any {
	email := testdata.UniqueEmail(fmt.Sprintf("burst%d", iteration), "")
	return map[string]any{
		"userName": email,
		"password": testdata.SecurePassword(12),
	}
}

// RateLimitProbe fires count requests at endpoint back to back and returns
// every captured result in call order. No pacing is enforced: window is
// logged for diagnosis only, because the goal is observing the target's rate
// limiter, not throttling the client. POST requests carry a fresh unique
// signup payload per iteration. Classification of the results (how many 429s
// versus 2xx) is the caller's job.
func (c *Client) RateLimitProbe(ctx context.Context, endpoint string, count int, window time.Duration, method string) ([]*Result, error) {
	log := obs.From(ctx)
	log.Info("rate-limit probe starting",
		"endpoint", endpoint,
		"count", count,
		"window", window.String(),
		"method", method,
		"concurrent", false,
	)

	results := make([]*Result, 0, count)
	for i := 0; i < count; i++ {
		opts := &Options{}
		if method == http.MethodPost {
			opts.Body = freshSignupBody(i)
		}
		result, err := c.Do(ctx, method, endpoint, opts)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// RateLimitProbeConcurrent is the truly parallel variant: all count requests
// are issued from their own goroutines and joined at the end, which exercises
// the target's limiter with real overlap instead of a sequential
// approximation. The returned slice is still indexed in call order. The first
// transport failure is returned alongside whatever results completed.
func (c *Client) RateLimitProbeConcurrent(ctx context.Context, endpoint string, count int, window time.Duration, method string) ([]*Result, error) {
	log := obs.From(ctx)
	log.Info("rate-limit probe starting",
		"endpoint", endpoint,
		"count", count,
		"window", window.String(),
		"method", method,
		"concurrent", true,
	)

	results := make([]*Result, count)
	transportErrs := make([]error, count)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opts := &Options{}
			if method == http.MethodPost {
				opts.Body = freshSignupBody(i)
			}
			results[i], transportErrs[i] = c.Do(ctx, method, endpoint, opts)
		}(i)
	}
	wg.Wait()

	ordered := make([]*Result, 0, count)
	for i, result := range results {
		if transportErrs[i] != nil {
			return ordered, transportErrs[i]
		}
		ordered = append(ordered, result)
	}
	return ordered, nil
}
