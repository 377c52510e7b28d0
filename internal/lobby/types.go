package lobby

import "time"

// State is the lifecycle of a lobby code.
type State string

const (
	StateOpen    State = "OPEN"
	StateStarted State = "STARTED"
	StateExpired State = "EXPIRED"
)

// Meta is stored as JSON in redis under sk:lobby:<code>.
type Meta struct {
	Code      string    `json:"code"`
	State     State     `json:"state"`
	Kind      string    `json:"kind"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`

	CreatorID   string `json:"creator_id"`
	CreatorName string `json:"creator_name"`

	JoinerID   string `json:"joiner_id,omitempty"`
	JoinerName string `json:"joiner_name,omitempty"`

	DuelID string `json:"duel_id,omitempty"`
}

type MakeResult struct {
	Code string
	Meta *Meta
}

// JoinResult reports whether the join filled the lobby. A filled lobby hands
// both participants back so the caller can start the match.
type JoinResult struct {
	Started bool
	Meta    *Meta
}

var (
	ErrInvalidArgs    = errf("invalid arguments")
	ErrLobbyGone      = errf("lobby not found or expired")
	ErrLobbyStarted   = errf("lobby already started")
	ErrFull           = errf("lobby already has two participants")
	ErrPlayerBusy     = errf("player has an active duel in this channel")
	ErrCreatorHasOpen = errf("user already has an open lobby")
	ErrSelfJoin       = errf("cannot join your own lobby")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
