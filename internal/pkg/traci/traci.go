package traci

import (
	"context"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/anicoll/traci-dashboard/internal/pkg/config"
)

type client struct {
	cfg    config.SourceConfig
	http   *resty.Client
	logger *zap.Logger
}

// New returns a client for the listing page. Requests are never retried: a
// failed fetch ends that refresh.
func New(cfg config.SourceConfig) *client {
	logger := zap.L() // returns the global logger.
	return &client{
		cfg: cfg,
		http: resty.New().
			SetTimeout(cfg.FetchTimeout).
			SetRetryCount(0).
			SetLogger(logger.Sugar()).
			SetHeader("Accept", "text/html"),
		logger: logger,
	}
}

// Fetch performs a single GET of the configured URL and returns the body.
func (c *client) Fetch(ctx context.Context) (string, error) {
	c.logger.Debug("fetching listing", zap.String("url", c.cfg.URL))
	resp, err := c.http.R().SetContext(ctx).Get(c.cfg.URL)
	if err != nil {
		c.logger.Error("failed to fetch listing", zap.String("url", c.cfg.URL), zap.Error(err))
		return "", &FetchError{URL: c.cfg.URL, Err: err}
	}
	if !resp.IsSuccess() {
		c.logger.Error("listing returned error status", zap.String("url", c.cfg.URL), zap.Int("status_code", resp.StatusCode()))
		return "", &FetchError{URL: c.cfg.URL, StatusCode: resp.StatusCode(), Err: ErrUnexpectedStatus}
	}
	c.logger.Debug("fetched listing",
		zap.Int("status_code", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("duration", resp.Time()),
	)
	return string(resp.Body()), nil
}
