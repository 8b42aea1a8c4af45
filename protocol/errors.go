package protocol

import (
	"errors"
	"fmt"
)

// ErrStreamClosed is returned when the server closes the stream before the
// game ended.
var ErrStreamClosed = errors.New("stream closed before the game ended")

// ProtocolError reports a message that violates the protocol. It is fatal:
// the client cannot continue the game.
type ProtocolError struct {
	Element string
	Msg     string
	Err     error
}

func (e *ProtocolError) Error() string {
	s := e.Msg
	if e.Element != "" {
		s = fmt.Sprintf("<%s>: %s", e.Element, e.Msg)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func violation(element, msg string, err error) error {
	return &ProtocolError{Element: element, Msg: msg, Err: err}
}
