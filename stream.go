package sentigo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	pkgerrs "github.com/sentimentinvestor/sentigo/pkg/errors"
	"github.com/sentimentinvestor/sentigo/pkg/types"
)

const (
	// DefaultStreamURL is the root of the SentimentInvestor realtime socket.
	DefaultStreamURL = "ws://socket.sentimentinvestor.com/"

	// Feed fragments appended to the stream URL.
	streamFragmentStocks = "stocks"
	streamFragmentAll    = "all"

	pingInterval          = 30 * time.Second
	handshakeTimeout      = 10 * time.Second
	reconnectInitialDelay = 1 * time.Second
	reconnectMaxDelay     = 30 * time.Second
	maxReconnectAttempts  = 10
)

// errStreamClosed reports a dial that completed after Close began.
var errStreamClosed = errors.New("stream is closed")

// StreamConfig holds the configuration for a realtime stream.
type StreamConfig struct {
	// Token is the API token. Required.
	Token string
	// Key is the API key. Required.
	Key string

	// Symbols restricts the feed to specific stocks. When empty the stream
	// subscribes to updates for all tracked stocks.
	Symbols []string

	// URL overrides the socket root. Defaults to DefaultStreamURL; mainly
	// useful for tests.
	URL string

	// Logger for structured diagnostics. Optional; when nil the stream
	// logs nothing.
	Logger *zerolog.Logger
}

// authRequest is the first message sent after the socket opens.
type authRequest struct {
	Token   string   `json:"token"`
	Key     string   `json:"key"`
	Symbols []string `json:"symbols,omitempty"`
}

// authResponse is the server's answer to the auth message. Update messages
// have no authState field and are decoded separately.
type authResponse struct {
	AuthState    *bool    `json:"authState"`
	Timestamp    float64  `json:"timestamp"`
	SubscribedTo []string `json:"subscribedTo"`
}

// Stream is a realtime listener for stock updates. Updates are delivered
// through the OnUpdate callback; the stream reconnects automatically if
// the connection drops and resubscribes with the same credentials.
type Stream struct {
	token   string
	key     string
	symbols []string
	url     string
	logger  zerolog.Logger

	conn      *websocket.Conn
	connMu    sync.Mutex
	connected bool

	onUpdate     func(*types.StockUpdate)
	onError      func(error)
	onConnected  func()
	onDisconnect func()

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewStream creates a realtime stream from the given configuration.
// It returns a ConfigError if the token or key is missing. The connection
// is not opened until Connect is called.
func NewStream(config *StreamConfig) (*Stream, error) {
	if config == nil {
		return nil, &pkgerrs.ConfigError{Message: "config cannot be nil"}
	}
	if config.Token == "" {
		return nil, &pkgerrs.ConfigError{Field: "Token", Message: "an API token is required"}
	}
	if config.Key == "" {
		return nil, &pkgerrs.ConfigError{Field: "Key", Message: "an API key is required"}
	}

	base := config.URL
	if base == "" {
		base = DefaultStreamURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	fragment := streamFragmentAll
	if len(config.Symbols) > 0 {
		fragment = streamFragmentStocks
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Stream{
		token:   config.Token,
		key:     config.Key,
		symbols: config.Symbols,
		url:     base + fragment,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// OnUpdate sets the callback invoked for every stock update.
func (s *Stream) OnUpdate(fn func(*types.StockUpdate)) { s.onUpdate = fn }

// OnError sets the callback invoked when the stream hits an error. An
// AuthError here means the server rejected the credentials and the stream
// has stopped.
func (s *Stream) OnError(fn func(error)) { s.onError = fn }

// OnConnected sets the callback invoked after each successful connect.
func (s *Stream) OnConnected(fn func()) { s.onConnected = fn }

// OnDisconnect sets the callback invoked when the connection is lost.
func (s *Stream) OnDisconnect(fn func()) { s.onDisconnect = fn }

// Connect dials the socket, sends the authentication message and starts
// the read and ping loops. Authentication is confirmed asynchronously: a
// rejection surfaces as an AuthError on the error callback.
func (s *Stream) Connect(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return &pkgerrs.RequestError{Endpoint: s.url, Err: err}
	}

	s.wg.Add(1)
	go s.readLoop()

	s.wg.Add(1)
	go s.pingLoop()

	s.logger.Info().Str("url", s.url).Msg("stream connected")
	return nil
}

// connect dials and performs the auth handshake send.
func (s *Stream) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}

	if err := conn.WriteJSON(authRequest{Token: s.token, Key: s.key, Symbols: s.symbols}); err != nil {
		conn.Close()
		return err
	}

	s.connMu.Lock()
	// A redial can race Close; never install a conn once stopping, or it
	// would leak past Close's teardown.
	select {
	case <-s.stopCh:
		s.connMu.Unlock()
		conn.Close()
		return errStreamClosed
	default:
	}
	s.conn = conn
	s.connected = true
	s.connMu.Unlock()

	if s.onConnected != nil {
		s.onConnected()
	}
	return nil
}

// IsConnected reports whether the socket is currently open.
func (s *Stream) IsConnected() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.connected
}

// Close stops the loops and closes the connection. It is safe to call
// multiple times.
func (s *Stream) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.connected = false
	}
	s.connMu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Stream) readLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
			}
			// Server-initiated closes take the same path as any other
			// read failure: the socket is gone either way and the stream
			// must resubscribe.
			s.handleDisconnect()
			if !s.reconnect() {
				return
			}
			continue
		}

		if stop := s.handleMessage(message); stop {
			s.shutdown()
			return
		}
	}
}

// handleMessage dispatches one incoming frame. It returns true when the
// stream must stop (credential rejection).
func (s *Stream) handleMessage(message []byte) bool {
	var auth authResponse
	if err := json.Unmarshal(message, &auth); err == nil && auth.AuthState != nil {
		if !*auth.AuthState {
			s.fail(&pkgerrs.AuthError{Message: "not authenticated or invalid request"})
			return true
		}
		s.logger.Info().
			Float64("timestamp", auth.Timestamp).
			Strs("subscribed_to", auth.SubscribedTo).
			Msg("stream authenticated")
		return false
	}

	var fields map[string]any
	if err := json.Unmarshal(message, &fields); err != nil {
		s.fail(&pkgerrs.ProtocolError{Body: string(message), Err: err})
		return false
	}

	update := &types.StockUpdate{Fields: fields}
	update.Symbol, _ = fields["symbol"].(string)
	update.Timestamp, _ = fields["timestamp"].(float64)

	if s.onUpdate != nil {
		s.onUpdate(update)
	}
	return false
}

func (s *Stream) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.connMu.Lock()
			conn := s.conn
			s.connMu.Unlock()
			if conn == nil {
				continue
			}
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(handshakeTimeout)); err != nil {
				s.logger.Debug().Err(err).Msg("ping failed")
			}
		}
	}
}

// reconnect re-dials with capped exponential backoff, resending the auth
// message each attempt. It returns false when the stream is stopping or
// every attempt failed.
func (s *Stream) reconnect() bool {
	delay := reconnectInitialDelay

	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		select {
		case <-s.stopCh:
			return false
		case <-time.After(delay):
		}

		s.logger.Info().Int("attempt", attempt).Msg("reconnecting stream")

		if err := s.connect(context.Background()); err != nil {
			delay *= 2
			if delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}
			continue
		}

		s.logger.Info().Msg("stream reconnected")
		return true
	}

	s.fail(&pkgerrs.RequestError{Endpoint: s.url, Message: "max reconnect attempts reached"})
	return false
}

// shutdown stops the loops and closes the connection from inside the read
// loop, without waiting on the WaitGroup.
func (s *Stream) shutdown() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connected = false
	s.connMu.Unlock()
}

func (s *Stream) handleDisconnect() {
	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connected = false
	s.connMu.Unlock()

	if s.onDisconnect != nil {
		s.onDisconnect()
	}
}

func (s *Stream) fail(err error) {
	s.logger.Error().Err(err).Msg("stream error")
	if s.onError != nil {
		s.onError(err)
	}
}
