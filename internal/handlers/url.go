package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/shortref/internal/shortener"
	"github.com/serroba/shortref/internal/urlcheck"
	"go.uber.org/zap"
)

// Shortener binds URLs to codes.
type Shortener interface {
	Shorten(ctx context.Context, url string) (shortener.Code, error)
}

// Resolver maps codes back to URLs.
type Resolver interface {
	Resolve(ctx context.Context, code shortener.Code, access *shortener.Access) (string, error)
}

// URLChecker rejects URLs that must not be shortened.
type URLChecker interface {
	Check(ctx context.Context, url string) error
}

// URLHandler serves shortening, redirects and access listings.
type URLHandler struct {
	shortener Shortener
	resolver  Resolver
	checker   URLChecker
	accessLog shortener.AccessLog
	baseURL   string
	normalize bool
	logger    *zap.Logger
	now       func() time.Time
}

type URLHandlerOption func(*URLHandler)

// WithChecker validates every URL before it is shortened.
func WithChecker(c URLChecker) URLHandlerOption {
	return func(h *URLHandler) {
		h.checker = c
	}
}

// WithAccessLog enables the access listing endpoint.
func WithAccessLog(log shortener.AccessLog) URLHandlerOption {
	return func(h *URLHandler) {
		h.accessLog = log
	}
}

// WithNormalize shortens the normalized spelling of each URL.
func WithNormalize() URLHandlerOption {
	return func(h *URLHandler) {
		h.normalize = true
	}
}

func WithClock(now func() time.Time) URLHandlerOption {
	return func(h *URLHandler) {
		h.now = now
	}
}

func NewURLHandler(
	s Shortener,
	resolver Resolver,
	baseURL string,
	logger *zap.Logger,
	opts ...URLHandlerOption,
) *URLHandler {
	h := &URLHandler{
		shortener: s,
		resolver:  resolver,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		logger:    logger,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *URLHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	url := strings.TrimSpace(req.Body.URL)

	if h.normalize && url != "" {
		normalized, err := urlcheck.Normalize(url)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid url", err)
		}

		url = normalized
	}

	if h.checker != nil {
		if err := h.checker.Check(ctx, url); err != nil {
			h.logger.Info("url rejected", zap.String("url", url), zap.Error(err))

			return nil, huma.Error400BadRequest("invalid url", err)
		}
	}

	code, err := h.shortener.Shorten(ctx, url)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrEmptyURL):
			return nil, huma.Error400BadRequest("url must not be empty")
		case errors.Is(err, shortener.ErrCodespaceExhausted):
			h.logger.Error("code space exhausted", zap.Error(err))

			return nil, huma.Error503ServiceUnavailable("no short code available, try again later")
		default:
			h.logger.Error("failed to shorten url", zap.String("url", url), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to shorten url")
		}
	}

	shortURL := fmt.Sprintf("%s/%s", h.baseURL, code)

	resp := &ShortenResponse{Location: shortURL}
	resp.Body.Code = string(code)
	resp.Body.ShortURL = shortURL
	resp.Body.OriginalURL = url

	return resp, nil
}

func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)
	access := &shortener.Access{
		ID:        uuid.NewString(),
		At:        h.now().UTC(),
		Referrer:  meta.Referrer,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	url, err := h.resolver.Resolve(ctx, shortener.Code(req.Code), access)
	if err != nil {
		if errors.Is(err, shortener.ErrNotExists) {
			return nil, huma.Error404NotFound("short url not found")
		}

		h.logger.Error("failed to resolve code", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve code")
	}

	return &RedirectResponse{
		Status:   http.StatusMovedPermanently,
		Location: url,
	}, nil
}

func (h *URLHandler) Accesses(ctx context.Context, req *AccessesRequest) (*AccessesResponse, error) {
	if h.accessLog == nil {
		return nil, huma.Error501NotImplemented("access tracking is not enabled")
	}

	accesses, err := h.accessLog.Accesses(ctx, shortener.Code(req.Code))
	if err != nil {
		h.logger.Error("failed to list accesses", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list accesses")
	}

	resp := &AccessesResponse{}
	resp.Body.Code = req.Code
	resp.Body.Accesses = make([]AccessBody, 0, len(accesses))

	for _, a := range accesses {
		resp.Body.Accesses = append(resp.Body.Accesses, AccessBody{
			ID:        a.ID,
			At:        a.At,
			Referrer:  a.Referrer,
			ClientIP:  a.ClientIP,
			UserAgent: a.UserAgent,
		})
	}

	return resp, nil
}
