package server

import (
	"context"
	"io"
	"sync"
)

// Scripted is an in-memory game server. It hands out pre-recorded chunks on
// Receive and records everything the client sends.
type Scripted struct {
	chunks [][]byte
	sent   []string
	mutex  sync.RWMutex
}

// NewScripted initializes and returns a server that replays chunks in order
// and then reports io.EOF.
func NewScripted(chunks ...string) *Scripted {
	s := &Scripted{}
	for _, chunk := range chunks {
		s.chunks = append(s.chunks, []byte(chunk))
	}
	return s
}

func (s *Scripted) Connect(ctx context.Context, host string, port int) error {
	return ctx.Err()
}

func (s *Scripted) Send(message string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sent = append(s.sent, message)
	return nil
}

// Receive copies the next chunk into buf. A chunk larger than buf is split
// across calls.
func (s *Scripted) Receive(buf []byte) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(buf, s.chunks[0])
	if n < len(s.chunks[0]) {
		s.chunks[0] = s.chunks[0][n:]
	} else {
		s.chunks = s.chunks[1:]
	}
	return n, nil
}

func (s *Scripted) Close() error {
	return nil
}

// Sent returns a copy of the messages sent so far.
func (s *Scripted) Sent() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	sent := make([]string, len(s.sent))
	copy(sent, s.sent)
	return sent
}

// Remaining returns the number of chunks not yet received.
func (s *Scripted) Remaining() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.chunks)
}
