package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

// Gateway submits a validated payload to the registration backend.
type Gateway interface {
	Submit(ctx context.Context, payload *model.RegistrationPayload) (*model.RegistrationResult, error)
	Name() string
}

const (
	ModeAuto      = ""
	ModeSimulated = "simulated"
	ModeHTTP      = "http"

	DefaultSimulatedDelay = 600 * time.Millisecond
)

// GatewayConfig selects and tunes the gateway variant.
type GatewayConfig struct {
	Mode           string
	BaseURL        string
	Timeout        time.Duration
	SimulatedDelay time.Duration
}

// NewGateway picks the variant once, at startup. An empty mode means
// "http when a base URL is configured, simulated otherwise"; the simulated
// choice is always logged so demo mode is never silent.
func NewGateway(cfg GatewayConfig, log *logger.Logger) (Gateway, error) {
	if log == nil {
		log = logger.Nop()
	}
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	auto := mode == ModeAuto
	if auto {
		if cfg.BaseURL != "" {
			mode = ModeHTTP
		} else {
			mode = ModeSimulated
		}
	}

	switch mode {
	case ModeHTTP:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("gateway mode %q requires gateway.base_url", ModeHTTP)
		}
		gw, err := NewHTTPGateway(cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		log.Info("using HTTP registration gateway", "base_url", cfg.BaseURL)
		return gw, nil
	case ModeSimulated:
		delay := cfg.SimulatedDelay
		if delay <= 0 {
			delay = DefaultSimulatedDelay
		}
		if auto {
			log.Warn("no gateway.base_url configured, registrations are simulated and not sent anywhere")
		} else {
			log.Info("using simulated registration gateway", "delay", delay.String())
		}
		return NewSimulatedGateway(delay), nil
	default:
		return nil, fmt.Errorf("unknown gateway mode %q", cfg.Mode)
	}
}

// SimulatedGateway emulates the backend for local development.
type SimulatedGateway struct {
	delay time.Duration
	newID func() string
}

func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{delay: delay, newID: newRegistrationID}
}

func (g *SimulatedGateway) Name() string { return ModeSimulated }

func (g *SimulatedGateway) Submit(ctx context.Context, _ *model.RegistrationPayload) (*model.RegistrationResult, error) {
	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &model.RegistrationResult{RegistrationID: g.newID()}, nil
}

// newRegistrationID returns "REG-" followed by 8 uppercase hex digits.
func newRegistrationID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "REG-" + strings.ToUpper(raw[:8])
}

// HTTPGateway posts registrations to the hospital backend.
type HTTPGateway struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewHTTPGateway constructs an HTTPGateway. A zero timeout leaves the
// transport default in place.
func NewHTTPGateway(base string, timeout time.Duration) (*HTTPGateway, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", base)
	}
	return &HTTPGateway{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (g *HTTPGateway) Name() string { return ModeHTTP }

func (g *HTTPGateway) Submit(ctx context.Context, payload *model.RegistrationPayload) (*model.RegistrationResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	u := *g.baseURL
	u.Path = path.Join(g.baseURL.Path, "registrations")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, apperrors.HTTPStatus(resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result model.RegistrationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Unknown(fmt.Errorf("decode response: %w", err))
	}
	if result.RegistrationID == "" {
		return nil, apperrors.Unknown(fmt.Errorf("response has no registrationId"))
	}
	return &result, nil
}
