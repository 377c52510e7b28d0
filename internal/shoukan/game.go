package shoukan

import (
	"math/rand"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/engine"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/msgcat"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/obslog"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/pkg/dueldto"
	"go.uber.org/zap"
)

const (
	PhasePlan   engine.Phase = "PLAN"
	PhaseCombat engine.Phase = "COMBAT"
)

// Reporter delivers match output: channel announcements, the shared arena
// render and a player's private hand render. Implementations own delivery;
// the game only produces views.
type Reporter interface {
	Announce(text string)
	ShowArena(v dueldto.ArenaView)
	ShowHand(v dueldto.HandView)
}

// Options tune a match. Zero values fall back to the classic ruleset.
type Options struct {
	BaseHP   int
	BaseMana int
	HandSize int
	Rand     *rand.Rand
}

func (o *Options) withDefaults() {
	if o.BaseHP <= 0 {
		o.BaseHP = 5000
	}
	if o.BaseMana <= 0 {
		o.BaseMana = 5
	}
	if o.HandSize <= 0 {
		o.HandSize = 5
	}
}

// Player identifies one participant.
type Player struct {
	UID  string
	Name string
}

// Shoukan is the trading-card battler mounted on a match. All methods run on
// the match goroutine.
type Shoukan struct {
	match    *engine.Match
	hands    [2]*Hand
	arena    *Arena
	opts     Options
	reporter Reporter
	catalog  *msgcat.Catalog
	logger   *zap.Logger

	winnerUID  string
	skipRender bool
}

// New builds the game for two players. Player index 1 moves on turn 1 per the
// turn parity rule.
func New(p0, p1 Player, opts Options, reporter Reporter, catalog *msgcat.Catalog) *Shoukan {
	opts.withDefaults()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	s := &Shoukan{
		arena:    NewArena(),
		opts:     opts,
		reporter: reporter,
		catalog:  catalog,
		logger:   obslog.L().With(zap.String("game", "shoukan")),
	}
	s.hands[0] = NewHand(p0.UID, p0.Name, TopSide, DeckRace(), StarterDeck(opts.Rand), opts.BaseHP)
	s.hands[1] = NewHand(p1.UID, p1.Name, BottomSide, DeckRace(), StarterDeck(opts.Rand), opts.BaseHP)
	return s
}

// Bind attaches the hosting match. Must run before Start.
func (s *Shoukan) Bind(m *engine.Match) { s.match = m }

func (s *Shoukan) Hand(i int) *Hand { return s.hands[i] }
func (s *Shoukan) Arena() *Arena    { return s.arena }

// Winner is the UID of the winning player, empty until the match closes with
// a decided result.
func (s *Shoukan) Winner() string { return s.winnerUID }

func (s *Shoukan) current() *Hand  { return s.hands[s.match.Turn()%2] }
func (s *Shoukan) opponent() *Hand { return s.hands[(s.match.Turn()+1)%2] }

// Begin deals opening hands, grants the first turn's mana and renders the
// initial state.
func (s *Shoukan) Begin() error {
	for _, h := range s.hands {
		h.SetRemainingDraws(s.opts.HandSize)
		h.Draw(s.opts.HandSize)
	}
	cur := s.current()
	cur.ModMP(cur.Race().ManaGain(s.match.Turn(), s.opts.BaseMana))

	s.reporter.Announce(s.text("shoukan.start", map[string]any{
		"Player1": s.hands[1].Name(), "Player2": s.hands[0].Name(), "Current": cur.Name(),
	}))
	s.reporter.ShowArena(s.arenaView())
	s.reporter.ShowHand(s.handView(cur))
	return nil
}

// Validate accepts only the current player's messages, by turn parity.
func (s *Shoukan) Validate(in engine.Inbound) bool {
	return in.UserID == s.current().UID()
}

func (s *Shoukan) Actions() []engine.Action { return s.buildActions() }

// OnTimeout forfeits the player who let the clock run out.
func (s *Shoukan) OnTimeout(turn int) {
	loser := s.current()
	winner := s.opponent()
	s.winnerUID = winner.UID()
	s.logger.Info("shoukan_timeout", zap.Int("turn", turn), zap.String("loser", loser.UID()))
	s.reporter.Announce(s.text("shoukan.timeout", map[string]any{
		"Turn": turn, "Winner": winner.Name(),
	}))
	s.match.Close(engine.ResultTimeout, nil)
}

// AfterAction re-renders the shared arena and, when the handler touched the
// hand, the acting player's private hand. nextTurn renders on its own and
// suppresses the duplicate here.
func (s *Shoukan) AfterAction(in engine.Inbound, rerenderHand bool) {
	if s.skipRender {
		s.skipRender = false
		return
	}
	s.reporter.ShowArena(s.arenaView())
	if rerenderHand {
		s.reporter.ShowHand(s.handView(s.current()))
	}
}

// nextTurn is the turn boundary: prune and flush the leaving player's hand,
// advance the counter, rearm the new player's board, grant mana and render
// both the arena and the new player's hand.
func (s *Shoukan) nextTurn() {
	leaving := s.current()
	leaving.PruneSpent()
	leaving.FlushDiscard()

	s.match.NextTurn()

	cur := s.current()
	s.arena.RestoreAvailability(cur.Side())
	cur.ModMP(cur.Race().ManaGain(s.match.Turn(), s.opts.BaseMana))
	if missing := s.opts.HandSize - len(cur.Cards()); missing > 0 {
		cur.SetRemainingDraws(missing)
	} else {
		cur.SetRemainingDraws(0)
	}

	s.reporter.Announce(s.text("shoukan.turn", map[string]any{
		"Turn": s.match.Turn(), "Player": cur.Name(), "HP": cur.HP(), "MP": cur.MP(),
	}))
	s.reporter.ShowArena(s.arenaView())
	s.reporter.ShowHand(s.handView(cur))
	s.skipRender = true
}

// win seals the match in favor of the given hand.
func (s *Shoukan) win(winner *Hand, res engine.Result) {
	s.winnerUID = winner.UID()
	s.reporter.Announce(s.text("shoukan.win", map[string]any{"Winner": winner.Name()}))
	s.skipRender = false
	s.reporter.ShowArena(s.arenaView())
	s.match.Close(res, nil)
}

func (s *Shoukan) text(key string, data map[string]any) string {
	out, err := s.catalog.Render(key, data)
	if err != nil {
		s.logger.Warn("msgcat_render_error", zap.String("key", key), zap.Error(err))
		return key
	}
	return out
}

func (s *Shoukan) sayErr(key string, data map[string]any) bool {
	s.reporter.Announce(s.text(key, data))
	s.skipRender = true
	return false
}

func (s *Shoukan) arenaView() dueldto.ArenaView {
	v := dueldto.ArenaView{
		Turn:  s.match.Turn(),
		Phase: string(s.match.Phase()),
	}
	v.Top = laneViews(s.arena.Slots(TopSide))
	v.Bottom = laneViews(s.arena.Slots(BottomSide))
	for i, h := range s.hands {
		v.Players[i] = dueldto.PlayerView{
			UserID:    h.UID(),
			Name:      h.Name(),
			HP:        h.HP(),
			MP:        h.MP(),
			HandCount: len(h.Cards()),
			DeckCount: h.DeckCount(),
			GraveSize: h.GraveCount(),
			Current:   h == s.current(),
		}
	}
	return v
}

func laneViews(slots []*SlotColumn) []dueldto.LaneView {
	out := make([]dueldto.LaneView, len(slots))
	for i, sc := range slots {
		if sc.HasTop() {
			out[i].Top = cardView(sc.Top())
		}
		if sc.HasBottom() {
			out[i].Bottom = cardView(sc.Bottom())
		}
	}
	return out
}

func cardView(c *Senshi) *dueldto.CardView {
	v := &dueldto.CardView{
		Name:       c.Name(),
		Attack:     c.Damage(),
		Defense:    c.Defense(),
		Flipped:    c.Flipped(),
		Defending:  c.Defending(),
		Supporting: c.Supporting(),
	}
	for _, e := range c.Equips() {
		v.Equips = append(v.Equips, e.Name())
	}
	if c.Flipped() {
		// facedown cards render as backs only
		v.Name = ""
		v.Attack = 0
		v.Defense = 0
		v.Equips = nil
	}
	return v
}

func (s *Shoukan) handView(h *Hand) dueldto.HandView {
	v := dueldto.HandView{
		Owner:     h.UID(),
		HP:        h.HP(),
		MP:        h.MP(),
		Remaining: h.RemainingDraws(),
	}
	for _, c := range h.Cards() {
		hc := dueldto.HandCardView{
			Name:      c.Name(),
			MPCost:    c.MPCost(),
			HPCost:    c.HPCost(),
			Available: c.Available(),
		}
		switch card := c.(type) {
		case *Senshi:
			hc.Kind = "senshi"
			hc.Attack = card.Damage()
			hc.Defense = card.Defense()
		case *Evogear:
			hc.Kind = "evogear"
			hc.Attack = card.Attack()
			hc.Defense = card.Defense()
		}
		v.Cards = append(v.Cards, hc)
	}
	return v
}
