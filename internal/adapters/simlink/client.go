// Package simlink bridges the bot to a live simulation over a websocket.
package simlink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/replay"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/config"
)

// ErrRateLimited is returned when a command exceeds the outbound budget.
// The scheduler counts it as a failed attempt and retries on a later pass.
var ErrRateLimited = errors.New("simlink: outbound command rate exceeded")

// ErrNotConnected is returned by Send before Connect or after Close
var ErrNotConnected = errors.New("simlink: not connected")

const writeTimeout = 5 * time.Second

// Stats summarizes a served connection
type Stats struct {
	Envelopes int
	Frames    int
	Matches   int
}

// Client is one websocket connection to the simulation. Inbound messages
// are applied on the goroutine calling Serve; Send may be called from it
// as well, which is where the orchestrator issues commands.
type Client struct {
	cfg     config.SimLinkConfig
	limiter *rate.Limiter
	logger  zerolog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	record *replay.Writer
}

// NewClient creates an unconnected client
func NewClient(cfg config.SimLinkConfig, logger zerolog.Logger) *Client {
	burst := cfg.CommandBurst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.CommandRate > 0 {
		limit = rate.Limit(cfg.CommandRate)
	}
	return &Client{
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With().Str("component", "simlink").Str("url", cfg.URL).Logger(),
	}
}

// Connect dials the simulation
func (c *Client) Connect(ctx context.Context) error {
	d := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, resp, err := d.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to simulation: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.logger.Info().Msg("connected")
	return nil
}

// Record tees every inbound envelope into w
func (c *Client) Record(w *replay.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = w
}

// Send writes one command. Frame acknowledgements bypass the rate limit.
func (c *Client) Send(cmd wire.Command) error {
	if cmd.Kind != wire.CommandDone && !c.limiter.Allow() {
		metrics.RecordCommand(string(cmd.Kind), "rate_limited")
		return ErrRateLimited
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(cmd); err != nil {
		metrics.RecordCommand(string(cmd.Kind), "error")
		return fmt.Errorf("failed to send %s command: %w", cmd.Kind, err)
	}
	metrics.RecordCommand(string(cmd.Kind), "sent")
	return nil
}

// Serve reads envelopes and applies them through session until the match
// ends, the connection drops or ctx is cancelled. Every frame is
// acknowledged once the bot has handled it.
func (c *Client) Serve(ctx context.Context, session *wire.Session, h wire.Handler) (Stats, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return Stats{}, ErrNotConnected
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			// unblocks ReadMessage
			_ = conn.SetReadDeadline(time.Now())
		case <-stop:
		}
	}()

	var stats Stats
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return stats, nil
			}
			return stats, fmt.Errorf("failed to read from simulation: %w", err)
		}
		env, err := wire.Decode(msg)
		if err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed envelope")
			continue
		}
		c.tee(env)

		if err := session.Apply(h, env); err != nil {
			return stats, fmt.Errorf("frame %d: %w", env.Frame, err)
		}
		stats.Envelopes++

		switch env.Kind {
		case wire.KindFrame:
			stats.Frames++
			if err := c.Send(wire.Command{Kind: wire.CommandDone, Frame: env.Frame}); err != nil {
				return stats, err
			}
		case wire.KindEnd:
			stats.Matches++
			return stats, nil
		}
	}
}

func (c *Client) tee(env wire.Envelope) {
	c.mu.Lock()
	w := c.record
	c.mu.Unlock()
	if w == nil {
		return
	}
	if err := w.Write(env); err != nil {
		c.logger.Warn().Err(err).Msg("stopping recording")
		c.Record(nil)
	}
}

// Close says goodbye and closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}
