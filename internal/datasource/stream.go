package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// FixtureUpdate is a live status/score change pushed by the provider
type FixtureUpdate struct {
	FixtureID int64  `json:"fixtureId"`
	Status    string `json:"status"`
	HomeScore *int   `json:"homeScore"`
	AwayScore *int   `json:"awayScore"`
	Minute    int    `json:"minute"`
}

// UpdateHandler is called for every update received from the stream
type UpdateHandler func(update FixtureUpdate)

// ReconnectConfig controls stream reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// StreamClient consumes the provider's live fixture update stream over
// WebSocket so finished fixtures reach settlement without waiting for
// the next polling run.
type StreamClient struct {
	streamURL string
	apiKey    string

	mu          sync.RWMutex
	conn        *websocket.Conn
	isConnected bool

	handlers        []UpdateHandler
	reconnectConfig ReconnectConfig
	logger          *logrus.Logger
}

// NewStreamClient creates a new live update stream client
func NewStreamClient(streamURL, apiKey string, logger *logrus.Logger) *StreamClient {
	return &StreamClient{
		streamURL:       streamURL,
		apiKey:          apiKey,
		handlers:        make([]UpdateHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// OnUpdate registers a handler for incoming fixture updates
func (s *StreamClient) OnUpdate(handler UpdateHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Connect establishes the WebSocket connection and starts reading
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, s.streamURL, nil)
	if resp != nil {
		drainBody(resp)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.logger.WithField("url", s.streamURL).Info("Connected to live fixture stream")

	if err := conn.WriteJSON(map[string]string{"op": "auth", "apiKey": s.apiKey}); err != nil {
		s.closeLocked()
		return fmt.Errorf("failed to authenticate stream: %w", err)
	}

	go s.readLoop(ctx)

	return nil
}

// readLoop reads updates until the connection drops, then reconnects
// with exponential backoff.
func (s *StreamClient) readLoop(ctx context.Context) {
	for {
		s.mu.RLock()
		conn := s.conn
		connected := s.isConnected
		s.mu.RUnlock()

		if !connected || conn == nil {
			return
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.WithError(err).Warn("Stream read failed, reconnecting")
			s.Close()
			s.reconnect(ctx)
			return
		}

		var update FixtureUpdate
		if err := json.Unmarshal(payload, &update); err != nil {
			s.logger.WithError(err).Debug("Ignoring unparseable stream message")
			continue
		}
		if update.FixtureID == 0 {
			// heartbeat or control frame
			continue
		}

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()
		for _, handler := range handlers {
			handler(update)
		}
	}
}

func (s *StreamClient) reconnect(ctx context.Context) {
	backoff := s.reconnectConfig.InitialBackoff

	for attempt := 1; attempt <= s.reconnectConfig.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		if err := s.Connect(ctx); err == nil {
			return
		}

		s.logger.WithField("attempt", attempt).Warn("Stream reconnect failed")
		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}
	}

	s.logger.Error("Giving up on stream reconnection")
}

// Close shuts the connection down
func (s *StreamClient) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *StreamClient) closeLocked() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.isConnected = false
}

// IsConnected reports whether the stream is currently connected
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}
