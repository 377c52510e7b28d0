package shoukan

// Drawable is any playable card-like entity: a combat-capable Senshi or an
// Evogear equipment. A card in hand is distinct from its board copy after
// placement; Copy produces the board-owned clone.
type Drawable interface {
	Name() string
	MPCost() int
	HPCost() int
	Available() bool
	SetAvailable(v bool)
	Copy() Drawable
}

// Race drives the per-archetype mana curve granted at each turn begin.
type Race string

const (
	RaceHuman    Race = "HUMAN"
	RaceDemon    Race = "DEMON"
	RaceSpirit   Race = "SPIRIT"
	RaceDivinity Race = "DIVINITY"
	RaceBeast    Race = "BEAST"
	RaceUndead   Race = "UNDEAD"
)

// ManaGain is the MP granted to a hand of this race at the start of a turn.
// base is the configured baseline gain.
func (r Race) ManaGain(turn, base int) int {
	switch r {
	case RaceDemon:
		// demons trade curve for raw early stats
		if turn <= 2 {
			return base + 1
		}
		return base - 1
	case RaceDivinity:
		// slow ramp, every fifth turn grants a bonus point
		if turn%5 == 0 {
			return base + 1
		}
		return base
	case RaceSpirit:
		// spirits scale with the match length
		return base + turn/10
	default:
		return base
	}
}

// Senshi is a combat-capable card. On the board it carries posture flags and
// up to 3 attached Evogear; in hand only cost and base stats matter.
type Senshi struct {
	id   string
	name string
	race Race

	mpCost int
	hpCost int
	atk    int
	def    int

	available  bool
	flipped    bool
	defending  bool
	supporting bool

	equips []*Evogear
}

// NewSenshi builds an available hand card.
func NewSenshi(id, name string, race Race, mpCost, hpCost, atk, def int) *Senshi {
	return &Senshi{id: id, name: name, race: race, mpCost: mpCost, hpCost: hpCost, atk: atk, def: def, available: true}
}

func (s *Senshi) ID() string          { return s.id }
func (s *Senshi) Name() string        { return s.name }
func (s *Senshi) Race() Race          { return s.race }
func (s *Senshi) MPCost() int         { return s.mpCost }
func (s *Senshi) HPCost() int         { return s.hpCost }
func (s *Senshi) Available() bool     { return s.available }
func (s *Senshi) SetAvailable(v bool) { s.available = v }

func (s *Senshi) Flipped() bool       { return s.flipped }
func (s *Senshi) SetFlipped(v bool)   { s.flipped = v }
func (s *Senshi) Defending() bool     { return s.defending }
func (s *Senshi) SetDefending(v bool) { s.defending = v }
func (s *Senshi) Supporting() bool    { return s.supporting }
func (s *Senshi) SetSupporting(v bool) { s.supporting = v }

func (s *Senshi) Equips() []*Evogear { return s.equips }

// Attach adds an equipment; callers enforce the capacity limit.
func (s *Senshi) Attach(e *Evogear) { s.equips = append(s.equips, e) }

// Damage is the offensive stat including equipment bonuses.
func (s *Senshi) Damage() int {
	d := s.atk
	for _, e := range s.equips {
		d += e.Attack()
	}
	return d
}

// Defense is the defensive stat including equipment bonuses.
func (s *Senshi) Defense() int {
	d := s.def
	for _, e := range s.equips {
		d += e.Defense()
	}
	return d
}

// ActiveAttr is the value a defender brings to combat resolution: damage in
// attack posture, doubled defense while defending. Facedown cards resolve as
// defenders.
func (s *Senshi) ActiveAttr() int {
	if s.defending || s.flipped {
		return s.Defense() * 2
	}
	return s.Damage()
}

// Copy deep-copies the card, equipment included.
func (s *Senshi) Copy() Drawable {
	cp := *s
	cp.equips = make([]*Evogear, 0, len(s.equips))
	for _, e := range s.equips {
		cp.equips = append(cp.equips, e.Copy().(*Evogear))
	}
	return &cp
}

// Evogear is an equipment card granting stat bonuses to its host Senshi.
// It cannot occupy a board slot on its own and dies with its host.
type Evogear struct {
	id   string
	name string
	tier int

	mpCost int
	hpCost int
	atk    int
	def    int

	available bool
}

func NewEvogear(id, name string, tier, mpCost, hpCost, atk, def int) *Evogear {
	return &Evogear{id: id, name: name, tier: tier, mpCost: mpCost, hpCost: hpCost, atk: atk, def: def, available: true}
}

func (e *Evogear) ID() string          { return e.id }
func (e *Evogear) Name() string        { return e.name }
func (e *Evogear) Tier() int           { return e.tier }
func (e *Evogear) MPCost() int         { return e.mpCost }
func (e *Evogear) HPCost() int         { return e.hpCost }
func (e *Evogear) Attack() int         { return e.atk }
func (e *Evogear) Defense() int        { return e.def }
func (e *Evogear) Available() bool     { return e.available }
func (e *Evogear) SetAvailable(v bool) { e.available = v }

func (e *Evogear) Copy() Drawable {
	cp := *e
	return &cp
}
