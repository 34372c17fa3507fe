package internal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	pkgerrs "github.com/sentimentinvestor/sentigo/pkg/errors"
)

// Bare-string bodies the API uses to signal credential failures instead of
// structured JSON.
const (
	bodyInvalidParameter = "invalid_parameter"
	bodyIncorrectKey     = "incorrect_key"
)

const (
	DefaultRequestsPerMinute = 60
	DefaultRateLimitBurst    = 10
	secondsPerMinute         = 60.0
)

// RateLimitConfig controls how requests are throttled before reaching the API.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 60 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 10 if zero.
	Burst int
}

// Transport performs authenticated GET requests against the
// SentimentInvestor REST API and validates the response envelope. It holds
// no per-request state and is safe for concurrent use.
type Transport struct {
	client  *http.Client
	baseURL *url.URL
	token   string
	key     string

	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewTransport returns a transport rooted at baseURL. If httpClient is nil,
// http.DefaultClient is used. A nil rateCfg disables client-side throttling.
func NewTransport(httpClient *http.Client, token, key, baseURL string, rateCfg *RateLimitConfig, logger zerolog.Logger) (*Transport, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "BaseURL", Message: err.Error()}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	var limiter *rate.Limiter
	if rateCfg != nil {
		limiter = buildLimiter(*rateCfg)
	}

	return &Transport{
		client:  httpClient,
		baseURL: parsedURL,
		token:   token,
		key:     key,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Get performs one blocking GET against the named endpoint with the given
// parameters plus the token and key credentials, then validates the
// response:
//
//   - a bare "invalid_parameter" or "incorrect_key" body fails with an
//     AuthError regardless of status code;
//   - a body that is not valid JSON fails with a ProtocolError carrying the
//     raw text;
//   - a status of 400 or above fails with a RequestError carrying the
//     decoded "message" field, if present.
//
// Otherwise the decoded JSON mapping is returned.
func (t *Transport) Get(ctx context.Context, endpoint string, params url.Values) (map[string]any, error) {
	if err := t.wait(ctx); err != nil {
		return nil, &pkgerrs.RequestError{Endpoint: endpoint, Err: err}
	}

	u, err := t.baseURL.Parse(endpoint)
	if err != nil {
		return nil, &pkgerrs.RequestError{Endpoint: endpoint, Err: err}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", t.token)
	params.Set("key", t.key)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &pkgerrs.RequestError{Endpoint: endpoint, Err: err}
	}

	t.logger.Debug().Str("endpoint", endpoint).Msg("requesting")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &pkgerrs.RequestError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrs.RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	text := string(body)
	if text == bodyInvalidParameter || text == bodyIncorrectKey {
		return nil, &pkgerrs.AuthError{StatusCode: resp.StatusCode, Body: text}
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &pkgerrs.ProtocolError{Body: text, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		message, _ := payload["message"].(string)
		return nil, &pkgerrs.RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	return payload, nil
}

func (t *Transport) wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

func buildLimiter(cfg RateLimitConfig) *rate.Limiter {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / secondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}
