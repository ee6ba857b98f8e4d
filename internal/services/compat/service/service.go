// Package service proxies selected routes to the legacy analysis backend
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	perr "meridian/internal/platform/errors"
	"meridian/internal/platform/logger"
)

// Result carries the downstream status and decoded payload back to the handler
type Result struct {
	StatusCode int
	Payload    any
}

// ProxyPort forwards requests to the legacy backend
type ProxyPort interface {
	Get(ctx context.Context, path string) (Result, error)
	PostJSON(ctx context.Context, path string, payload any) (Result, error)
}

// Config for the compat proxy
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Service implements ProxyPort over a shared resty client
type Service struct {
	Cfg    Config
	client *resty.Client
}

// New constructs a compat proxy service
func New(cfg Config) *Service {
	if cfg.Timeout < time.Second {
		cfg.Timeout = time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	return &Service{Cfg: cfg, client: client}
}

// Get implements ProxyPort
func (s *Service) Get(ctx context.Context, path string) (Result, error) {
	resp, err := s.client.R().SetContext(ctx).Get("/" + strings.TrimLeft(path, "/"))
	return s.relay(ctx, path, resp, err)
}

// PostJSON implements ProxyPort
func (s *Service) PostJSON(ctx context.Context, path string, payload any) (Result, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/" + strings.TrimLeft(path, "/"))
	return s.relay(ctx, path, resp, err)
}

// relay maps transport failures and 5xx answers to bad gateway and decodes
// everything else, non JSON bodies are wrapped under a raw key
func (s *Service) relay(ctx context.Context, path string, resp *resty.Response, err error) (Result, error) {
	if err != nil {
		logger.C(ctx).Warn().Str("path", path).Err(err).Msg("legacy backend unreachable")
		return Result{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "legacy backend request failed")
	}
	if resp.StatusCode() >= 500 {
		logger.C(ctx).Warn().Str("path", path).Int("status", resp.StatusCode()).Msg("legacy backend server error")
		return Result{}, perr.Unavailablef("legacy backend returned server error")
	}

	body := resp.Body()
	var payload any
	if strings.Contains(resp.Header().Get("Content-Type"), "application/json") {
		if jsonErr := json.Unmarshal(body, &payload); jsonErr != nil {
			payload = map[string]any{"raw": string(body)}
		}
	} else {
		payload = map[string]any{"raw": string(body)}
	}
	return Result{StatusCode: resp.StatusCode(), Payload: payload}, nil
}
