package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Outbound buffer per connection.
	sendBufferSize = 256
)

var errSinkClosed = errors.New("connection sink closed")
var errSendBufferFull = errors.New("outbound buffer full")

// Client binds one websocket connection to the registry. Its write pump is
// the single writer for the socket, so frames are never interleaved and
// events from sequential broadcasts arrive in call order.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	registry ports.ConnectionRegistry

	send      chan domain.Event
	closeOnce sync.Once
	closed    chan struct{}

	logger *slog.Logger
}

var _ ports.EventSink = (*Client)(nil)

// NewClient creates a client for an upgraded websocket connection.
func NewClient(id string, conn *websocket.Conn, registry ports.ConnectionRegistry, logger *slog.Logger) *Client {
	return &Client{
		ID:       id,
		Conn:     conn,
		registry: registry,
		send:     make(chan domain.Event, sendBufferSize),
		closed:   make(chan struct{}),
		logger:   logger.With("connection_id", id),
	}
}

// Deliver queues one event for the write pump. It fails when the outbound
// buffer is full or the sink has been closed, signalling the router to
// evict this connection rather than block the remaining targets.
func (c *Client) Deliver(event domain.Event) error {
	select {
	case <-c.closed:
		return errSinkClosed
	default:
	}

	select {
	case c.send <- event:
		return nil
	case <-c.closed:
		return errSinkClosed
	default:
		return errSendBufferFull
	}
}

// Close tears the transport down. Safe to call more than once; the write
// pump drains and sends a close frame on its way out.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// ReadPump owns the read side of the socket: pong frames and client
// heartbeats refresh the registry's last-seen timestamp. Runs in its own
// goroutine; exiting unregisters the connection.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Unregister(c.ID)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		c.registry.Touch(c.ID)
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump is the single writer for the socket. Runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event := <-c.send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if err := c.writeJSON(event); err != nil {
				c.logger.Error("failed to write event", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}

		case <-c.closed:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
			}
			return
		}
	}
}

// writeJSON writes one event frame to the websocket connection.
func (c *Client) writeJSON(event domain.Event) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(event); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type string `json:"type"`
}

// handleIncomingMessage processes messages received from the client.
// Clients only speak an application-level heartbeat; everything else is
// ignored, matching the "unrecognized values are ignorable" contract.
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case "PING":
		c.registry.Touch(c.ID)
		c.sendPong()

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

func (c *Client) sendPong() {
	select {
	case c.send <- domain.Event{Type: "PONG", Timestamp: time.Now().UTC()}:
	default:
		// Channel full, skip pong response
	}
}
