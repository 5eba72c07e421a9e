package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Versifine/atrium/internal/event"
	"github.com/Versifine/atrium/internal/logger"
	"github.com/Versifine/atrium/internal/protocol"
)

var ErrNotConnected = errors.New("client not connected")

const (
	writeWait    = 5 * time.Second
	maxFrameSize = 1 << 20
)

// Sink receives decoded inbound messages on the read goroutine.
type Sink interface {
	Deliver(msg protocol.Message)
}

// Recorder stores raw inbound envelopes before they are decoded.
type Recorder interface {
	Record(env protocol.Envelope) error
}

type Config struct {
	URL              string
	HandshakeTimeout time.Duration
}

type Client struct {
	cfg  Config
	sink Sink
	bus  *event.Bus
	rec  Recorder
	log  *slog.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	received int
	skipped  int
}

func New(cfg Config, sink Sink, bus *event.Bus, rec Recorder) *Client {
	return &Client{
		cfg:  cfg,
		sink: sink,
		bus:  bus,
		rec:  rec,
		log:  logger.Component("client"),
	}
}

// Start dials the server and reads frames until the connection drops or ctx
// is cancelled. There is no reconnect; a cancelled ctx returns nil.
func (c *Client) Start(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	conn.SetReadLimit(maxFrameSize)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.log.Info("Connected to server", "url", c.cfg.URL)
	c.bus.Publish(event.ConnectedEvent{URL: c.cfg.URL})

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			c.mu.Unlock()
			_ = conn.Close()
		case <-done:
		}
	}()

	err = c.readLoop(conn)
	close(done)

	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	_ = conn.Close()

	if ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		c.log.Warn("Disconnected from server", "url", c.cfg.URL, "error", err)
	} else {
		c.log.Info("Disconnected from server", "url", c.cfg.URL)
	}
	c.bus.Publish(event.DisconnectedEvent{URL: c.cfg.URL, Err: err})
	return err
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		env, err := protocol.DecodeEnvelope(raw)
		if err != nil {
			c.skip("Dropped malformed frame", err)
			continue
		}
		if c.rec != nil {
			if err := c.rec.Record(env); err != nil {
				c.log.Warn("Failed to record frame", "type", env.Type, "error", err)
			}
		}
		msg, err := protocol.DecodePayload(env.Type, env.Data)
		if err != nil {
			c.skip("Dropped frame", err)
			continue
		}

		c.mu.Lock()
		c.received++
		c.mu.Unlock()
		c.sink.Deliver(msg)
	}
}

func (c *Client) skip(msg string, err error) {
	c.mu.Lock()
	c.skipped++
	c.mu.Unlock()
	c.log.Debug(msg, "error", err)
}

// SendMove writes the local transform. Writes are serialised; gorilla
// connections allow only one concurrent writer.
func (c *Client) SendMove(m protocol.Move) error {
	data, err := protocol.Encode(m)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send move: %w", err)
	}
	return nil
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Stats returns the number of delivered and dropped frames.
func (c *Client) Stats() (received, skipped int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received, c.skipped
}
