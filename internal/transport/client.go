// Package transport issues the two kinds of request the translation service
// understands: standard requests and script-injection requests whose
// response is a single callback invocation.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/valpere/mstranslate/internal/logging"
	"github.com/valpere/mstranslate/internal/metrics"
)

// CallbackPlaceholder is replaced by the per-request callback name in script
// request URLs.
const CallbackPlaceholder = "{{callback}}"

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Indicator is the loading indicator toggled around every request.
type Indicator interface {
	Show()
	Hide()
}

type noopIndicator struct{}

func (noopIndicator) Show() {}
func (noopIndicator) Hide() {}

// Options configures a Client. Nil fields get working defaults.
type Options struct {
	HTTPClient *http.Client
	Indicator  Indicator
	Logger     *logrus.Logger

	// Timeout bounds each request. Zero means DefaultTimeout, negative
	// disables the bound.
	Timeout time.Duration

	// RateLimit caps outgoing requests per second. Zero disables limiting.
	RateLimit float64
}

// Client performs standard and script requests, showing the indicator while
// each one is in flight. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	indicator Indicator
	logger    *logrus.Logger
	timeout   time.Duration
	limiter   *rate.Limiter
	registry  *Registry
}

// New returns a Client with its own callback registry.
func New(opts Options) *Client {
	c := &Client{
		http:      opts.HTTPClient,
		indicator: opts.Indicator,
		logger:    opts.Logger,
		timeout:   opts.Timeout,
		registry:  NewRegistry(),
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.indicator == nil {
		c.indicator = noopIndicator{}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c
}

// Do issues a standard request and returns the response body. A non-2xx
// response yields a *StatusError when the body explains the failure and
// ErrUnexpected otherwise.
func (c *Client) Do(ctx context.Context, method, url string, headers map[string]string) ([]byte, error) {
	return c.send(ctx, metrics.ModeStandard, method, url, headers)
}

// Script issues a script-injection request. urlTemplate must contain
// CallbackPlaceholder; it is replaced with a callback name unique to this
// call, and the payload the response passes to that callback is returned.
func (c *Client) Script(ctx context.Context, urlTemplate string) (json.RawMessage, error) {
	if !strings.Contains(urlTemplate, CallbackPlaceholder) {
		return nil, fmt.Errorf("script URL has no %s slot", CallbackPlaceholder)
	}

	result := make(chan json.RawMessage, 1)
	name, unregister := c.registry.Register(func(payload json.RawMessage) {
		result <- payload
	})
	defer unregister()

	url := strings.ReplaceAll(urlTemplate, CallbackPlaceholder, name)
	body, err := c.send(ctx, metrics.ModeScript, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	invoked, payload, err := ParseScript(body)
	if err != nil {
		return nil, err
	}
	if invoked != name {
		c.logger.WithFields(logrus.Fields{
			"expected": name,
			"invoked":  invoked,
		}).Warn("Script response invoked a foreign callback")
		return nil, fmt.Errorf("%w: %s", ErrUnknownCallback, invoked)
	}
	if err := c.registry.Invoke(invoked, payload); err != nil {
		return nil, err
	}

	return <-result, nil
}

func (c *Client) send(ctx context.Context, mode, method, url string, headers map[string]string) ([]byte, error) {
	c.indicator.Show()
	defer c.indicator.Hide()

	log := c.logger.WithFields(logrus.Fields{
		"mode":   mode,
		"method": method,
		"url":    redact(url),
	})
	log.Debug("Sending request")

	start := time.Now()
	body, err := c.roundTrip(ctx, method, url, headers)
	elapsed := time.Since(start)
	metrics.RecordRequest(mode, elapsed, err)

	if err != nil {
		log.WithError(err).WithField("latency_ms", elapsed.Milliseconds()).Error("Request failed")
		return nil, err
	}
	log.WithField("latency_ms", elapsed.Milliseconds()).Debug("Request completed")
	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, method, url string, headers map[string]string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnexpected, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp.StatusCode, body)
	}
	return body, nil
}

// redact hides the appId query value, which carries the bearer token.
func redact(url string) string {
	i := strings.Index(url, "appId=")
	if i < 0 {
		return url
	}
	rest := url[i+len("appId="):]
	if j := strings.IndexByte(rest, '&'); j >= 0 {
		return url[:i] + "appId=REDACTED" + rest[j:]
	}
	return url[:i] + "appId=REDACTED"
}
