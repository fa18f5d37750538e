// Package fetch provides the HTTP page client used for every remote site.
// Each client wraps a colly collector limited to one request in flight with
// a delay between requests, a request timeout, and a circuit breaker that
// stops hitting a site after repeated server-side failures.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultUserAgent is the browser identification sent to sites that reject
// non-browser clients
const DefaultUserAgent = "Mozilla/5.0 (Windows NT x.y; Win64; x64; rv:10.0) Gecko/20100101 Firefox/10.0"

// Options configures a Client
type Options struct {
	UserAgent       string        // Empty keeps the colly default
	Timeout         time.Duration // Per request timeout
	Delay           time.Duration // Minimum pause between two requests
	RandomDelay     time.Duration // Extra random pause added to Delay
	CacheDir        string        // Optional on-disk response cache
	BreakerFailures uint32        // Consecutive failures that open the circuit
	BreakerTimeout  time.Duration // How long the circuit stays open
}

// DefaultOptions returns the defaults used for scraping public sites
func DefaultOptions() Options {
	return Options{
		Timeout:         20 * time.Second,
		Delay:           time.Second,
		RandomDelay:     500 * time.Millisecond,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Page is a fetched HTTP response
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Document parses the page body as HTML
func (p *Page) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.URL, err)
	}
	return doc, nil
}

// StatusError is returned for any response other than 200 OK
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to retrieve %s: status code %d", e.URL, e.StatusCode)
}

// Client fetches pages from one site
type Client struct {
	name      string
	collector *colly.Collector
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewClient creates a page client. name identifies the site in logs and
// in circuit breaker errors.
func NewClient(name string, opts Options, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	collectorOpts := []colly.CollectorOption{colly.AllowURLRevisit()}
	if opts.UserAgent != "" {
		collectorOpts = append(collectorOpts, colly.UserAgent(opts.UserAgent))
	}
	if opts.CacheDir != "" {
		collectorOpts = append(collectorOpts, colly.CacheDir(opts.CacheDir))
	}

	c := colly.NewCollector(collectorOpts...)
	// Non-2xx responses reach OnResponse so the status can be reported
	c.ParseHTTPErrorResponse = true
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       opts.Delay,
		RandomDelay: opts.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("failed to set rate limit for %s: %w", name, err)
	}

	failures := opts.BreakerFailures
	if failures == 0 {
		failures = DefaultOptions().BreakerFailures
	}

	cl := &Client{
		name:      name,
		collector: c,
		logger:    logger,
	}
	cl.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("site", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return cl, nil
}

// Name returns the site name of the client
func (c *Client) Name() string {
	return c.name
}

// Get fetches rawURL. Any status other than 200 is returned as *StatusError
// together with the page.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.visit(ctx, rawURL)
	})
	page, _ := res.(*Page)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s unavailable: %w", c.name, err)
		}
		return page, err
	}
	return page, nil
}

func (c *Client) visit(ctx context.Context, rawURL string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	coll := c.collector.Clone()
	coll.Context = ctx

	var page *Page
	coll.OnResponse(func(r *colly.Response) {
		page = &Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       r.Body,
		}
	})

	started := time.Now()
	if err := coll.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", rawURL, err)
	}
	if page == nil {
		return nil, fmt.Errorf("request to %s returned no response", rawURL)
	}

	c.logger.Debug("Fetched page",
		zap.String("site", c.name),
		zap.String("url", rawURL),
		zap.Int("status", page.StatusCode),
		zap.Duration("took", time.Since(started)))

	if page.StatusCode != http.StatusOK {
		return page, &StatusError{URL: rawURL, StatusCode: page.StatusCode}
	}
	return page, nil
}

// isSuccessful decides which errors count against the circuit breaker.
// Client-side statuses such as 404 say nothing about the health of the site.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < 500 && statusErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// Getter is implemented by Client and by test doubles
type Getter interface {
	Get(ctx context.Context, rawURL string) (*Page, error)
}
