package duel

import "time"

// Kind names the game mounted on a duel.
type Kind string

const (
	KindShoukan Kind = "shoukan"
	KindChess   Kind = "chess"
)

// Status is the persisted lifecycle of a duel.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
	StatusForfeit  Status = "FORFEIT"
	StatusTimeout  Status = "TIMEOUT"
	StatusAborted  Status = "ABORTED"
)

// Duel is the registry record of a match, stored as JSON in redis while the
// match is live and upserted into the database once it ends.
type Duel struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Channel string `json:"channel"`

	P1ID   string `json:"p1_id"`
	P1Name string `json:"p1_name"`
	P2ID   string `json:"p2_id"`
	P2Name string `json:"p2_name"`

	Status  Status `json:"status"`
	Winner  string `json:"winner,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Turns   int    `json:"turns"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Duel) OpponentOf(userID string) string {
	if d.P1ID == userID {
		return d.P2ID
	}
	if d.P2ID == userID {
		return d.P1ID
	}
	return ""
}

var (
	ErrInvalidArgs = errf("invalid arguments")
	ErrPlayerBusy  = errf("player has an active duel in this channel")
	ErrNotFound    = errf("duel not found or expired")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
