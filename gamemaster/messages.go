package gamemaster

import (
	"fmt"
	"strings"

	"penguins/game"
	"penguins/protocol"
)

const closingMessage = "</protocol>"

func joinedMessage(roomID string) string {
	return fmt.Sprintf("<protocol>\n  <joined roomId=\"%s\"/>", protocol.Escape(roomID))
}

func welcomeMessage(roomID string, player game.Player) string {
	return room(roomID, fmt.Sprintf(`<data class="welcomeMessage" color="%s"></data>`, player))
}

func moveRequestMessage(roomID string) string {
	return room(roomID, `<data class="moveRequest"/>`)
}

func leftMessage(roomID string) string {
	return fmt.Sprintf(`<left roomId="%s"/>`, protocol.Escape(roomID))
}

// stateMessage serializes the complete state. The board is sent row by row;
// coordinates of the last move are doubled.
func stateMessage(roomID string, state *game.GameState, lastMove *game.Move) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<data class="memento"><state class="state" turn="%d">`, state.Turn())
	fmt.Fprintf(&sb, "<startTeam>%s</startTeam><board>", state.StartPlayer())
	board := state.Board()
	for y := 0; y < game.BoardSize; y++ {
		sb.WriteString("<list>")
		for x := 0; x < game.BoardSize; x++ {
			fmt.Fprintf(&sb, "<field>%s</field>", board.Get(x, y).State)
		}
		sb.WriteString("</list>")
	}
	sb.WriteString("</board>")
	if lastMove != nil {
		sb.WriteString(`<lastMove class="move">`)
		if lastMove.Kind == game.DragMove {
			from := lastMove.Start.Doubled()
			fmt.Fprintf(&sb, `<from x="%d" y="%d"/>`, from.X, from.Y)
		}
		to := lastMove.Destination.Doubled()
		fmt.Fprintf(&sb, `<to x="%d" y="%d"/>`, to.X, to.Y)
		sb.WriteString("</lastMove>")
	}
	fmt.Fprintf(&sb, "<fishes><int>%d</int><int>%d</int></fishes></state></data>",
		state.FishCount(game.PlayerOne), state.FishCount(game.PlayerTwo))
	return room(roomID, sb.String())
}

// resultMessage serializes the result. Scores are listed in player order.
func resultMessage(roomID string, result game.Result) string {
	var sb strings.Builder
	sb.WriteString(`<data class="result"><definition>`)
	sb.WriteString(`<fragment name="Siegpunkte"><aggregation>SUM</aggregation><relevantForRanking>true</relevantForRanking></fragment>`)
	sb.WriteString(`<fragment name="Fische"><aggregation>AVERAGE</aggregation><relevantForRanking>true</relevantForRanking></fragment>`)
	sb.WriteString("</definition><scores>")
	for i, score := range result.Scores {
		fmt.Fprintf(&sb, `<entry><player team="%s"/><score cause="%s" reason="%s">`,
			players[i], score.Cause, protocol.Escape(score.Reason))
		for _, value := range score.Values {
			fmt.Fprintf(&sb, "<part>%s</part>", protocol.Escape(value))
		}
		sb.WriteString("</score></entry>")
	}
	sb.WriteString("</scores>")
	if result.Winner != nil {
		fmt.Fprintf(&sb, `<winner team="%s"/>`, result.Winner.Player)
	}
	sb.WriteString("</data>")
	return room(roomID, sb.String())
}

func room(roomID, data string) string {
	return fmt.Sprintf(`<room roomId="%s">%s</room>`, protocol.Escape(roomID), data)
}
