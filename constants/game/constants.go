package game_constants

// Game lifecycle states. Transitions are monotonic:
// lobby -> in-progress -> finished, no way back.
const (
	GameStatusLobby      = "lobby"
	GameStatusInProgress = "in-progress"
	GameStatusFinished   = "finished"
)

// Roles. A player keeps RoleUnassigned until the game starts and is
// never reassigned afterwards.
const (
	RoleUnassigned = ""
	RolePlayer     = "player"
	RoleImpostor   = "impostor"
)

// Player liveness states. Ghost is terminal.
const (
	PlayerStatusActive = "active"
	PlayerStatusGhost  = "ghost"
)

// Ballot choices for an elimination vote
const (
	VoteChoiceDrop   = "drop"
	VoteChoiceRemain = "remain"
)

// Winner values reported in the game_over event
const (
	WinnerPlayers   = "player"
	WinnerImpostors = "impostor"
)

const MIN_PLAYERS_TO_START = 3

// Maximum chat messages kept per game in Redis
const CHAT_HISTORY_LENGTH = 50
