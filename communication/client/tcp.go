package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrNotConnected = errors.New("not connected")

// TCP talks to the game server over a plain TCP connection.
type TCP struct {
	conn        net.Conn
	readTimeout time.Duration
}

// NewTCP returns an unconnected TCP transport. A positive readTimeout bounds
// every Receive.
func NewTCP(readTimeout time.Duration) *TCP {
	return &TCP{readTimeout: readTimeout}
}

func (c *TCP) Connect(ctx context.Context, host string, port int) error {
	var d net.Dialer
	address := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	c.conn = conn
	log.Debug().Str("address", address).Msg("connected")
	return nil
}

func (c *TCP) Send(message string) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	log.Debug().Str("message", message).Msg("sending")
	if _, err := c.conn.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (c *TCP) Receive(buf []byte) (int, error) {
	if c.conn == nil {
		return 0, ErrNotConnected
	}
	if c.readTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return 0, fmt.Errorf("failed to set read deadline: %w", err)
		}
	}
	n, err := c.conn.Read(buf)
	if n > 0 {
		log.Trace().Bytes("chunk", buf[:n]).Msg("received")
	}
	return n, err
}

func (c *TCP) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
