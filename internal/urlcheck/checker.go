// Package urlcheck decides whether a URL may be shortened.
package urlcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds the reachability ping.
const DefaultTimeout = 10 * time.Second

var (
	ErrMissingScheme  = errors.New("missing URL scheme")
	ErrHostNotAllowed = errors.New("host not allowed")
	ErrUnreachable    = errors.New("url unreachable")
)

// Checker validates URLs before they are shortened.
type Checker struct {
	whitelist Whitelist
	ping      bool
	timeout   time.Duration
	client    *http.Client
	logger    *zap.Logger
}

type Option func(*Checker)

// WithWhitelist restricts hosts. A nil whitelist allows every host; an empty
// one allows none.
func WithWhitelist(w Whitelist) Option {
	return func(c *Checker) {
		c.whitelist = w
	}
}

// WithoutPing skips the reachability check.
func WithoutPing() Option {
	return func(c *Checker) {
		c.ping = false
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		c.client = client
	}
}

func NewChecker(logger *zap.Logger, opts ...Option) *Checker {
	c := &Checker{
		ping:    true,
		timeout: DefaultTimeout,
		client:  http.DefaultClient,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check returns nil when rawURL has an http(s) scheme, an allowed host and,
// unless disabled, answers a GET with a non-error status within the timeout.
func (c *Checker) Check(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrMissingScheme
	}

	if !c.allowed(u.Hostname()) {
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}

	if c.ping {
		return c.Ping(ctx, rawURL)
	}

	return nil
}

func (c *Checker) allowed(host string) bool {
	if c.whitelist == nil {
		c.logger.Debug("bypassing hostname check against the whitelist")

		return true
	}

	return c.whitelist.Contains(host)
}

// Ping reports whether rawURL reaches a server that answers without an
// error status.
func (c *Checker) Ping(ctx context.Context, rawURL string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Info("cannot connect to url", zap.String("url", rawURL), zap.Error(err))

		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Info("url answered with error status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)

		return fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	return nil
}
