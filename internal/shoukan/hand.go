package shoukan

// Hand is one player's live resource and card state for a single match. It is
// exclusively owned by its match; nothing outside the match goroutine touches
// it.
type Hand struct {
	uid  string
	name string
	side Side
	race Race

	hp int
	mp int

	deck      []Drawable
	cards     []Drawable
	graveyard []Drawable
	discard   []Drawable

	forfeit        bool
	remainingDraws int

	// message id of the last rendered private hand image, replaced on render
	lastHandMsg string
}

func NewHand(uid, name string, side Side, race Race, deck []Drawable, baseHP int) *Hand {
	return &Hand{
		uid:  uid,
		name: name,
		side: side,
		race: race,
		hp:   baseHP,
		deck: deck,
	}
}

func (h *Hand) UID() string  { return h.uid }
func (h *Hand) Name() string { return h.name }
func (h *Hand) Side() Side   { return h.side }
func (h *Hand) Race() Race   { return h.race }
func (h *Hand) HP() int      { return h.hp }
func (h *Hand) MP() int      { return h.mp }

// ModHP applies delta with no clamping. Callers validate sufficiency before
// debiting; going negative here is how a match is lost, not a bug.
func (h *Hand) ModHP(delta int) { h.hp += delta }

// ModMP applies delta with no clamping; callers pre-validate sufficiency.
func (h *Hand) ModMP(delta int) { h.mp += delta }

// Card returns the 1-based hand card, nil when out of bounds.
func (h *Hand) Card(i int) Drawable {
	if i < 1 || i > len(h.cards) {
		return nil
	}
	return h.cards[i-1]
}

func (h *Hand) Cards() []Drawable { return h.cards }

// AddCards puts cards straight into the hand, bypassing the draw budget.
// Used by deck-building flows and scenario setup.
func (h *Hand) AddCards(cs ...Drawable) { h.cards = append(h.cards, cs...) }
func (h *Hand) DeckCount() int    { return len(h.deck) }
func (h *Hand) GraveCount() int   { return len(h.graveyard) }
func (h *Hand) Graveyard() []Drawable { return h.graveyard }

// Draw moves up to n cards from the deck into the hand, bounded by the
// remaining-draw budget. Returns how many cards actually moved.
func (h *Hand) Draw(n int) int {
	drawn := 0
	for drawn < n && h.remainingDraws > 0 && len(h.deck) > 0 {
		h.cards = append(h.cards, h.deck[0])
		h.deck = h.deck[1:]
		h.remainingDraws--
		drawn++
	}
	return drawn
}

func (h *Hand) RemainingDraws() int     { return h.remainingDraws }
func (h *Hand) SetRemainingDraws(n int) { h.remainingDraws = n }

// ToDiscard moves the 1-based hand card to the discard pile, awaiting the
// end-of-turn flush.
func (h *Hand) ToDiscard(i int) Drawable {
	c := h.Card(i)
	if c == nil {
		return nil
	}
	h.cards = append(h.cards[:i-1], h.cards[i:]...)
	h.discard = append(h.discard, c)
	return c
}

// FlushDiscard permanently moves every discarded card to the graveyard.
func (h *Hand) FlushDiscard() {
	h.graveyard = append(h.graveyard, h.discard...)
	h.discard = nil
}

// PruneSpent drops hand cards already played this turn (unavailable after a
// place/equip) into the graveyard. The board copies live on independently.
func (h *Hand) PruneSpent() {
	kept := h.cards[:0]
	for _, c := range h.cards {
		if c.Available() {
			kept = append(kept, c)
		} else {
			h.graveyard = append(h.graveyard, c)
		}
	}
	h.cards = kept
}

// ToGrave buries board cards, equipment included.
func (h *Hand) ToGrave(cards ...Drawable) {
	for _, c := range cards {
		if s, ok := c.(*Senshi); ok {
			for _, e := range s.Equips() {
				h.graveyard = append(h.graveyard, e)
			}
		}
		h.graveyard = append(h.graveyard, c)
	}
}

func (h *Hand) Forfeited() bool    { return h.forfeit }
func (h *Hand) SetForfeit(v bool)  { h.forfeit = v }
func (h *Hand) LastHandMsg() string { return h.lastHandMsg }
func (h *Hand) SetLastHandMsg(id string) { h.lastHandMsg = id }
