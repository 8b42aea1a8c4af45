package protocol

import "penguins/game"

// Delegate is the game logic that answers move requests of the game server.
// Every game state passed to a delegate is a snapshot the delegate may keep.
type Delegate interface {
	// Player returns the player the delegate plays for.
	Player() game.Player
	// OnMoveRequested returns the move to send and optional debug hints. A
	// nil move sends an empty move message.
	OnMoveRequested(state *game.GameState) (*game.Move, []string)
	OnGameStateUpdated(state *game.GameState)
	OnGameEnded()
	OnGameResultReceived(result game.Result)
}

// Factory creates the delegate once the server assigned a player.
type Factory func(player game.Player) (Delegate, error)
