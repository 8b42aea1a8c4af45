package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket carries the same XML text as TCP, one protocol chunk per text
// frame. It is used when the game server sits behind a WebSocket gateway.
type WebSocket struct {
	path        string
	conn        *websocket.Conn
	pending     []byte
	readTimeout time.Duration
}

// NewWebSocket returns an unconnected WebSocket transport for the given URL path.
func NewWebSocket(path string, readTimeout time.Duration) *WebSocket {
	return &WebSocket{path: path, readTimeout: readTimeout}
}

func (c *WebSocket) Connect(ctx context.Context, host string, port int) error {
	u := url.URL{Scheme: "ws", Host: net.JoinHostPort(host, strconv.Itoa(port)), Path: c.path}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", u.String(), err)
	}
	c.conn = conn
	log.Debug().Str("url", u.String()).Msg("connected")
	return nil
}

func (c *WebSocket) Send(message string) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	log.Debug().Str("message", message).Msg("sending")
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Receive returns the next frame, or the rest of a frame that did not fit
// into buf on the previous call.
func (c *WebSocket) Receive(buf []byte) (int, error) {
	if c.conn == nil {
		return 0, ErrNotConnected
	}
	for len(c.pending) == 0 {
		if c.readTimeout > 0 {
			if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
				return 0, fmt.Errorf("failed to set read deadline: %w", err)
			}
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		c.pending = data
	}
	n := copy(buf, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *WebSocket) Close() error {
	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}
