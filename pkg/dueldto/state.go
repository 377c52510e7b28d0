// Package dueldto carries presentation state across the adapter boundary so
// renderers and formatters never import game internals.
package dueldto

// CardView is one board card as shown to spectators. Facedown cards expose
// no stats.
type CardView struct {
	Name       string
	Attack     int
	Defense    int
	Flipped    bool
	Defending  bool
	Supporting bool
	Equips     []string
}

// LaneView is one slot column: an optional frontline card and an optional
// support card behind it.
type LaneView struct {
	Top    *CardView
	Bottom *CardView
}

// PlayerView is the public resource line of one duelist.
type PlayerView struct {
	UserID    string
	Name      string
	HP        int
	MP        int
	HandCount int
	DeckCount int
	GraveSize int
	Current   bool
}

// ArenaView is the full public board snapshot sent after each action.
type ArenaView struct {
	Turn    int
	Phase   string
	Top     []LaneView // lanes of the player on the top side
	Bottom  []LaneView
	Players [2]PlayerView
}

// HandCardView is one card in a player's private hand render.
type HandCardView struct {
	Name      string
	Kind      string // "senshi" | "evogear"
	Attack    int
	Defense   int
	MPCost    int
	HPCost    int
	Available bool
}

// HandView is the private hand snapshot sent to its owner only.
type HandView struct {
	Owner     string
	HP        int
	MP        int
	Remaining int // draws left this turn
	Cards     []HandCardView
}
