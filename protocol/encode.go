package protocol

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"penguins/game"
)

// JoinMessage opens the protocol stream. A non-empty reservation joins a
// prepared game.
func JoinMessage(reservation string) string {
	if reservation == "" {
		return "<protocol><join />"
	}
	return fmt.Sprintf(`<protocol><joinPrepared reservationCode="%s" />`, Escape(reservation))
}

// MoveMessage serializes a move sent to the given room. Coordinates are sent
// in doubled representation.
func MoveMessage(roomID string, move *game.Move, hints []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<room roomId="%s"><data class="move">`, Escape(roomID))
	if move != nil {
		if move.Kind == game.DragMove {
			from := move.Start.Doubled()
			fmt.Fprintf(&sb, `<from x="%d" y="%d" />`, from.X, from.Y)
		}
		to := move.Destination.Doubled()
		fmt.Fprintf(&sb, `<to x="%d" y="%d" />`, to.X, to.Y)
	}
	for _, hint := range hints {
		fmt.Fprintf(&sb, `<hint content="%s" />`, Escape(hint))
	}
	sb.WriteString("</data></room>")
	return sb.String()
}

// Escape escapes s for use in XML attribute values and character data.
func Escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s)) // writes to a bytes.Buffer never fail
	return buf.String()
}
