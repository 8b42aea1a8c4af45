package communication

import (
	"context"
	"io"
)

// Transport is an interface that abstracts the connection to the game server.
type Transport interface {
	Connect(ctx context.Context, host string, port int) error
	Send(message string) error
	// Receive blocks until at least one chunk of data is available and copies
	// it into buf.
	Receive(buf []byte) (int, error)
	Close() error
}

type reader struct {
	transport Transport
}

// Reader adapts a transport to an io.Reader. Each Read performs exactly one
// Receive.
func Reader(t Transport) io.Reader {
	return &reader{transport: t}
}

func (r *reader) Read(p []byte) (int, error) {
	return r.transport.Receive(p)
}
