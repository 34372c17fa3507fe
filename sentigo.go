package sentigo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentimentinvestor/sentigo/internal"
	pkgerrs "github.com/sentimentinvestor/sentigo/pkg/errors"
	"github.com/sentimentinvestor/sentigo/pkg/types"
)

const (
	// DefaultBaseURL is the versioned root of the SentimentInvestor REST API.
	DefaultBaseURL = "https://api.sentimentinvestor.com/v4/"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// Config holds the configuration for the SentimentInvestor client.
//
// Token and Key are required; both come from the developer dashboard at
// https://sentimentinvestor.com/developer/dashboard. Everything else is
// optional.
type Config struct {
	// Token is the API token. Required.
	Token string
	// Key is the API key. Required.
	Key string

	// BaseURL overrides the API root. Defaults to DefaultBaseURL; mainly
	// useful for tests.
	BaseURL string

	// HTTPClient to use for requests. Defaults to a client with
	// DefaultTimeout. Customize this to set timeouts, proxies, or other
	// transport behavior.
	HTTPClient *http.Client

	// Logger for structured diagnostics. Optional; when nil the client
	// logs nothing.
	Logger *zerolog.Logger

	// RateLimit enables client-side throttling of outgoing requests.
	// Optional; when nil requests are not throttled.
	RateLimit *RateLimitConfig
}

// RateLimitConfig caps the rate of outgoing requests.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 60 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 10 if zero.
	Burst int
}

// Client talks to the SentimentInvestor REST API. Every method performs a
// single blocking request and returns the decoded result or a typed error.
//
// The client holds no per-call mutable state, so a single instance is safe
// for concurrent use.
type Client struct {
	transport *internal.Transport
	mapper    *internal.Mapper
}

// New creates a SentimentInvestor client from the given configuration.
// It returns a ConfigError if the token or key is missing.
func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrs.ConfigError{Message: "config cannot be nil"}
	}
	if config.Token == "" {
		return nil, &pkgerrs.ConfigError{Field: "Token", Message: "an API token is required"}
	}
	if config.Key == "" {
		return nil, &pkgerrs.ConfigError{Field: "Key", Message: "an API key is required"}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	var rateCfg *internal.RateLimitConfig
	if config.RateLimit != nil {
		rateCfg = &internal.RateLimitConfig{
			RequestsPerMinute: config.RateLimit.RequestsPerMinute,
			Burst:             config.RateLimit.Burst,
		}
	}

	transport, err := internal.NewTransport(httpClient, config.Token, config.Key, baseURL, rateCfg, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		transport: transport,
		mapper:    internal.NewMapper(),
	}, nil
}

// Parsed returns the four core metrics for a stock: AHI, RHI, SGP and
// sentiment. A nil record with a nil error means the service has no data
// for the symbol.
func (c *Client) Parsed(ctx context.Context, symbol string) (*types.TickerData, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	payload, err := c.transport.Get(ctx, "parsed", params)
	if err != nil {
		return nil, err
	}
	if !success(payload) {
		return nil, nil
	}

	data := c.mapper.TickerData(stringField(payload, "symbol"), resultsMap(payload))
	return &data, nil
}

// Raw returns the raw per-platform metrics for a stock.
func (c *Client) Raw(ctx context.Context, symbol string) (*types.QuoteData, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	payload, err := c.transport.Get(ctx, "raw", params)
	if err != nil {
		return nil, err
	}
	if !success(payload) {
		return nil, nil
	}

	data := c.mapper.QuoteData(stringField(payload, "symbol"), resultsMap(payload))
	return &data, nil
}

// Quote returns all realtime data about a stock. Setting enrich asks the
// service to include the per-subreddit breakdown.
func (c *Client) Quote(ctx context.Context, symbol string, enrich bool) (*types.QuoteData, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("enrich", strconv.FormatBool(enrich))

	payload, err := c.transport.Get(ctx, "quote", params)
	if err != nil {
		return nil, err
	}
	if !success(payload) {
		return nil, nil
	}

	data := c.mapper.QuoteData(stringField(payload, "symbol"), resultsMap(payload))
	return &data, nil
}

// Sort returns up to limit stocks ranked by the given metric. The order is
// the service's ranking and is preserved as returned, not re-sorted
// locally.
func (c *Client) Sort(ctx context.Context, metric string, limit int) ([]types.TickerData, error) {
	params := url.Values{}
	params.Set("metric", metric)
	params.Set("limit", strconv.Itoa(limit))

	payload, err := c.transport.Get(ctx, "sort", params)
	if err != nil {
		return nil, err
	}
	if !success(payload) {
		return nil, nil
	}

	return c.tickerList(payload), nil
}

// Historical returns historical values of one metric for a stock between
// the start and end Unix timestamps (seconds). The result maps each data
// point's timestamp to its value; a duplicated timestamp in the response
// overwrites the earlier entry.
func (c *Client) Historical(ctx context.Context, symbol, metric string, start, end int64) (map[float64]float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("metric", metric)
	params.Set("start", strconv.FormatInt(start, 10))
	params.Set("end", strconv.FormatInt(end, 10))

	payload, err := c.transport.Get(ctx, "historical", params)
	if err != nil {
		return nil, err
	}
	if !success(payload) {
		return nil, nil
	}

	points := make(map[float64]float64)
	for _, entry := range resultsList(payload) {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		timestamp, _ := fields["timestamp"].(float64)
		value, _ := fields["data"].(float64)
		points[timestamp] = value
	}
	return points, nil
}

// Bulk returns quote data for several stocks in one request. The symbols
// are sent as a single comma-joined parameter and results come back in
// service order, one per symbol.
func (c *Client) Bulk(ctx context.Context, symbols []string, enrich bool) ([]types.TickerData, error) {
	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	params.Set("enrich", strconv.FormatBool(enrich))

	payload, err := c.transport.Get(ctx, "bulk", params)
	if err != nil {
		return nil, err
	}
	if !success(payload) {
		return nil, nil
	}

	return c.tickerList(payload), nil
}

// All returns data for every stock the service tracks. This is a single
// blocking call and can take a long time to execute.
func (c *Client) All(ctx context.Context, enrich bool) ([]types.TickerData, error) {
	params := url.Values{}
	params.Set("enrich", strconv.FormatBool(enrich))

	payload, err := c.transport.Get(ctx, "all", params)
	if err != nil {
		return nil, err
	}
	if !success(payload) {
		return nil, nil
	}

	return c.tickerList(payload), nil
}

// Supported reports whether the service gathers data for the given stock.
func (c *Client) Supported(ctx context.Context, symbol string) (bool, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	payload, err := c.transport.Get(ctx, "supported", params)
	if err != nil {
		return false, err
	}
	if !success(payload) {
		return false, nil
	}

	supported, _ := payload["result"].(bool)
	return supported, nil
}

// AllStocks returns the set of symbols the service gathers data for.
func (c *Client) AllStocks(ctx context.Context) (map[string]struct{}, error) {
	payload, err := c.transport.Get(ctx, "all-stocks", nil)
	if err != nil {
		return nil, err
	}
	if !success(payload) {
		return nil, nil
	}

	symbols := make(map[string]struct{})
	for _, entry := range resultsList(payload) {
		if symbol, ok := entry.(string); ok {
			symbols[symbol] = struct{}{}
		}
	}
	return symbols, nil
}

// tickerList maps each entry of a results array to a TickerData, keeping
// the service's order.
func (c *Client) tickerList(payload map[string]any) []types.TickerData {
	entries := resultsList(payload)
	stocks := make([]types.TickerData, 0, len(entries))
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		stocks = append(stocks, c.mapper.TickerData(stringField(fields, "symbol"), fields))
	}
	return stocks
}

func success(payload map[string]any) bool {
	ok, _ := payload["success"].(bool)
	return ok
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

func resultsMap(payload map[string]any) map[string]any {
	fields, _ := payload["results"].(map[string]any)
	return fields
}

func resultsList(payload map[string]any) []any {
	entries, _ := payload["results"].([]any)
	return entries
}
