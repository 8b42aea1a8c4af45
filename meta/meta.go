// meta/meta.go
package meta

// BOARD_SIZE defines the number of fields along each board axis.
const BOARD_SIZE = 8

// PLACEMENT_TURNS defines the number of plies in which penguins are placed.
const PLACEMENT_TURNS = 8

// MAX_TURNS bounds local games.
const MAX_TURNS = 300

const EXECUTABLE_NAME = "penguins-client"

const VERSION = "0.1.0"

// DEFAULT_HOST defines the game server host used without a -h flag.
const DEFAULT_HOST = "127.0.0.1"

// DEFAULT_PORT defines the game server port used without a -p flag.
const DEFAULT_PORT = 13050
