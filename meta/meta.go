// meta/meta.go
package meta

// EXPLORATION defines the PUCT exploration constant.
const EXPLORATION = 0.01

// SIMULATIONS defines the number of simulations per move for MCTS.
const SIMULATIONS = 2000

// LISTEN_EVERY defines how many simulations pass between analysis updates.
const LISTEN_EVERY = 500

// OBSTACLES defines the number of blocked cells in a new game.
const OBSTACLES = 5

// MAX_MOVES defines the move limit of a game, passes included.
const MAX_MOVES = 200

// GAMES defines the number of games in a match.
const GAMES = 100

// TEMPERATURE defines the move sampling temperature of training agents.
const TEMPERATURE = 1.0
