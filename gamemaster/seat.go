package gamemaster

import (
	"fmt"
	"io"

	"penguins/game"
	"penguins/protocol"
)

// seat is the connection of one player.
type seat struct {
	player  game.Player
	w       io.Writer
	decoder *protocol.Decoder
}

func newSeat(player game.Player, rw io.ReadWriter) *seat {
	return &seat{player: player, w: rw, decoder: protocol.NewDecoder(rw)}
}

func (s *seat) send(messages ...string) error {
	for _, message := range messages {
		if _, err := io.WriteString(s.w, message); err != nil {
			return fmt.Errorf("failed to send to player %s: %w", s.player, err)
		}
	}
	return nil
}

// awaitJoin reads up to the join request of the client. Both open and
// prepared games are accepted.
func (s *seat) awaitJoin() error {
	for {
		event, err := s.decoder.Next()
		if err != nil {
			return err
		}
		if event.Kind != protocol.StartElement {
			continue
		}
		switch event.Name {
		case "protocol":
		case "join", "joinPrepared":
			return nil
		default:
			return &protocol.ProtocolError{Element: event.Name, Msg: "expected a join request"}
		}
	}
}

// receiveMove reads up to the end of the next move message. A move without a
// destination is returned as nil.
func (s *seat) receiveMove() (*game.Move, []string, error) {
	var (
		inMove   bool
		from, to *game.Coordinate
		hints    []string
	)
	for {
		event, err := s.decoder.Next()
		if err != nil {
			return nil, nil, err
		}

		switch event.Kind {
		case protocol.StartElement:
			switch {
			case event.Name == "data":
				if class := event.Attrs["class"]; class != "move" {
					return nil, nil, &protocol.ProtocolError{Element: "data", Msg: fmt.Sprintf("expected a move, got %q", class)}
				}
				inMove = true
			case !inMove:
			case event.Name == "from" || event.Name == "to":
				c, err := protocol.DecodeCoordinate(event.Name, event.Attrs)
				if err != nil {
					return nil, nil, err
				}
				if event.Name == "from" {
					from = &c
				} else {
					to = &c
				}
			case event.Name == "hint":
				hints = append(hints, event.Attrs["content"])
			}
		case protocol.EndElement:
			if !inMove || event.Name != "data" {
				continue
			}
			var move game.Move
			switch {
			case to == nil:
				return nil, hints, nil
			case from == nil:
				move = game.NewSetMove(*to)
			default:
				move = game.NewDragMove(*from, *to)
			}
			return &move, hints, nil
		}
	}
}
