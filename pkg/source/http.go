package source

import (
	"context"
	"time"

	"github.com/arthur-debert/leakrules/pkg/errors"
	"github.com/arthur-debert/leakrules/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const (
	// DefaultTimeout bounds the whole download, redirects included
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent with every request
	DefaultUserAgent = "leakrules"

	maxRedirects = 5
)

// HTTPOptions configures the HTTP fetcher
type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string
	// Dial overrides how connections are opened; tests use it to talk to
	// an in-memory listener
	Dial fasthttp.DialFunc
}

// HTTPFetcher downloads documents with a fasthttp client
type HTTPFetcher struct {
	client    *fasthttp.Client
	timeout   time.Duration
	userAgent string
	logger    zerolog.Logger
}

// NewHTTPFetcher creates an HTTPFetcher
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPFetcher{
		client: &fasthttp.Client{
			ReadTimeout:                   timeout,
			WriteTimeout:                  timeout,
			MaxIdleConnDuration:           10 * time.Second,
			DisableHeaderNamesNormalizing: true,
			Dial:                          opts.Dial,
		},
		timeout:   timeout,
		userAgent: userAgent,
		logger:    logging.GetLogger("source"),
	}
}

// Fetch performs a single GET of location, following redirects
func (h *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrSourceUnavailable, "fetch cancelled")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(location)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(h.userAgent)

	deadline := h.deadline(ctx)
	h.logger.Debug().Str("url", location).Time("deadline", deadline).Msg("Fetching rule document")

	if err := h.do(ctx, req, resp, deadline); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnavailable, "request to %s failed", location).
			WithDetail("url", location)
	}

	statusCode := resp.StatusCode()
	if statusCode < 200 || statusCode >= 300 {
		return nil, errors.Newf(errors.ErrSourceUnavailable, "%s returned status %d", location, statusCode).
			WithDetail("url", location).
			WithDetail("status", statusCode)
	}

	// The response buffer goes back to the pool on release
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	h.logger.Info().
		Str("url", location).
		Int("status", statusCode).
		Int("bytes", len(body)).
		Msg("Fetched rule document")

	return body, nil
}

// deadline is the earlier of the configured timeout and the context deadline
func (h *HTTPFetcher) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(h.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

// do follows redirects itself so every hop shares a single deadline
func (h *HTTPFetcher) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error {
	for redirects := 0; ; redirects++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.client.DoDeadline(req, resp, deadline); err != nil {
			return err
		}
		if !fasthttp.StatusCodeIsRedirect(resp.StatusCode()) {
			return nil
		}
		if redirects >= maxRedirects {
			return fasthttp.ErrTooManyRedirects
		}
		target := resp.Header.Peek(fasthttp.HeaderLocation)
		if len(target) == 0 {
			return fasthttp.ErrMissingLocation
		}
		req.URI().UpdateBytes(target)
		h.logger.Debug().Str("location", req.URI().String()).Msg("Following redirect")
		resp.Reset()
	}
}
