/*
Package chat implements the relay's side of the chat transport.

This file defines the Client struct, a WebSocket connection to the chat
service implementing the session table's Facade contract. It manages the
connection lifecycle, the message pumps (ReadPump and WritePump), and the
translation of inbound frames into session events.
*/
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/louiz/rugamia/internal/app/session"
	"github.com/louiz/rugamia/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed to wait for a Pong from the chat service.
	pongWait = 60 * time.Second

	// frequency at which the client sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame from the chat service.
	maxMessageSize = 8192

	// sendChannelBuffer sizes the outbound frame queue.
	sendChannelBuffer = 256
)

// Sink receives the session events the client derives from inbound frames.
type Sink interface {
	Post(ev session.Event)
}

// Client is the WebSocket chat connection. It implements session.Facade.
type Client struct {
	// url is the websocket endpoint of the chat service.
	url string

	// identity is the bot's own bound address, sent during the handshake.
	identity string

	// nick is the bot's room nickname.
	nick string

	// underlying WebSocket connection object, set by Start.
	conn *websocket.Conn

	// a buffered channel queueing marshaled frames for the write pump.
	send chan []byte

	// sink receives derived session events.
	sink Sink

	// closeOnce guards connection teardown against the pumps racing.
	closeOnce sync.Once

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs a Client for the given endpoint and identity.
func NewClient(url, identity, nick string, sink Sink) *Client {
	return &Client{
		url:      url,
		identity: identity,
		nick:     nick,
		send:     make(chan []byte, sendChannelBuffer),
		sink:     sink,
		logger:   logx.Component("ChatClient").With().Str("identity", identity).Logger(),
	}
}

// Start dials the chat service and launches the read and write pumps.
// A rejected handshake surfaces as an AuthFailed event; any other dial
// failure is returned to the caller. On success the sink receives Connected
// followed by SessionStarted, which makes the session table join its rooms.
func (c *Client) Start(ctx context.Context) error {
	header := http.Header{}
	header.Set("X-Chat-Identity", c.identity)
	header.Set("X-Chat-Nick", c.nick)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			c.logger.Error().Int("status", resp.StatusCode).Msg("Chat service rejected credentials.")
			c.sink.Post(session.Event{Type: session.AuthFailed})
		}
		return err
	}
	c.conn = conn

	c.sink.Post(session.Event{Type: session.Connected})
	c.sink.Post(session.Event{Type: session.SessionStarted})

	go c.readPump()
	go c.writePump(ctx)

	return nil
}

// readPump reads frames from the connection until it fails, translating each
// into a session event. It owns the read deadline and pong handling.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Chat connection closed unexpectedly.")
			}
			c.sink.Post(session.Event{Type: session.Disconnected})
			return
		}

		c.processInboundFrame(frameBytes)
	}
}

// processInboundFrame decodes one frame and posts the matching session event.
func (c *Client) processInboundFrame(frameBytes []byte) {
	var frame Frame
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		c.logger.Warn().Err(err).Bytes("frame_bytes", frameBytes).Msg("Chat service sent invalid JSON")
		return
	}

	switch frame.Type {
	case FramePresence:
		c.sink.Post(session.Event{
			Type:        session.Presence,
			Room:        frame.Room,
			Nick:        frame.Nick,
			Affiliation: frame.Affiliation,
			Identity:    frame.Identity,
			Kind:        frame.Presence,
		})

	case FrameMessage:
		c.sink.Post(session.Event{
			Type: session.Message,
			Room: frame.Room,
			Nick: frame.Nick,
			Body: frame.Body,
		})

	case FrameDirect:
		c.sink.Post(session.Event{
			Type:     session.Message,
			Identity: frame.Identity,
			Body:     frame.Body,
		})

	default:
		c.logger.Warn().Str("frame_type", string(frame.Type)).Msg("Chat service sent unsupported frame type")
	}
}

// writePump drains the send channel onto the connection and keeps the
// heartbeat alive with periodic pings. Context cancellation sends a close
// frame and tears the connection down.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frameBytes := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frameBytes); err != nil {
				c.logger.Error().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error().Err(err).Msg("Error writing ping")
				return
			}

		case <-ctx.Done():
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			}
			return
		}
	}
}

// SendToRoom queues a room message frame. Implements session.Facade.
func (c *Client) SendToRoom(room, text string) error {
	return c.enqueueFrame(Frame{
		ID:   uuid.NewString(),
		Type: FrameMessage,
		Room: room,
		Nick: c.nick,
		Body: text,
	})
}

// SendDirect queues a direct message frame. Implements session.Facade.
func (c *Client) SendDirect(identity, text string) error {
	return c.enqueueFrame(Frame{
		ID:       uuid.NewString(),
		Type:     FrameDirect,
		Identity: identity,
		Body:     text,
	})
}

// JoinRoom queues a join request frame. Implements session.Facade.
func (c *Client) JoinRoom(room, nick string) error {
	return c.enqueueFrame(Frame{
		ID:   uuid.NewString(),
		Type: FrameJoin,
		Room: room,
		Nick: nick,
	})
}

// enqueueFrame marshals the frame onto the send channel without blocking.
func (c *Client) enqueueFrame(frame Frame) error {
	frameBytes, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling frame")
		return err
	}

	select {
	case c.send <- frameBytes:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send channel full, dropping frame")
		return fmt.Errorf("chat send queue full")
	}
}

// Close tears down the connection once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.conn == nil {
			return
		}
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Chat connection close error")
		}
	})
}

// Nick returns the bot's own room nickname.
func (c *Client) Nick() string {
	return c.nick
}

// Identity returns the bot's own bound address.
func (c *Client) Identity() string {
	return c.identity
}
