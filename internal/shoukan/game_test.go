package shoukan

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/engine"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/msgcat"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/pkg/dueldto"
)

type stubReporter struct {
	texts  []string
	arenas int
	hands  int
}

func (r *stubReporter) Announce(t string)          { r.texts = append(r.texts, t) }
func (r *stubReporter) ShowArena(dueldto.ArenaView) { r.arenas++ }
func (r *stubReporter) ShowHand(dueldto.HandView)  { r.hands++ }

func (r *stubReporter) lastText() string {
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

func newTestGame(t *testing.T) (*Shoukan, *engine.Match, *stubReporter) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	rep := &stubReporter{}
	g := New(
		Player{UID: "u0", Name: "Alice"},
		Player{UID: "u1", Name: "Bob"},
		Options{Rand: rand.New(rand.NewSource(7))},
		rep, cat,
	)
	m := engine.NewMatch("m-test", g, []string{"c1"}, PhasePlan, 0)
	g.Bind(m)
	return g, m, rep
}

// play runs the raw command through the game's action table the way the
// match loop would, phase guard and named groups included.
func play(t *testing.T, g *Shoukan, m *engine.Match, raw string) bool {
	t.Helper()
	text := engine.Normalize(raw)
	for _, a := range g.buildActions() {
		if !phaseOK(a.Phases, m.Phase()) {
			continue
		}
		sub := a.Pattern.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		p := make(engine.Params)
		for i, name := range a.Pattern.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			p[name] = strings.TrimPrefix(sub[i], ",")
		}
		a.Handle(p)
		return true
	}
	return false
}

func phaseOK(phases []engine.Phase, cur engine.Phase) bool {
	if len(phases) == 0 {
		return true
	}
	for _, p := range phases {
		if p == cur {
			return true
		}
	}
	return false
}

func TestBeginDealsAndGrantsMana(t *testing.T) {
	g, _, rep := newTestGame(t)
	if err := g.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	for i := 0; i < 2; i++ {
		if got := len(g.Hand(i).Cards()); got != 5 {
			t.Fatalf("hand %d: got %d cards, want 5", i, got)
		}
	}
	// player index 1 moves on turn 1 and gets the first mana grant
	if got := g.Hand(1).MP(); got != 5 {
		t.Fatalf("starting MP: got %d, want 5", got)
	}
	if got := g.Hand(0).MP(); got != 0 {
		t.Fatalf("waiting player MP: got %d, want 0", got)
	}
	if rep.arenas == 0 || rep.hands == 0 {
		t.Fatal("begin must render the arena and the active hand")
	}
}

func TestValidateTurnParity(t *testing.T) {
	g, m, _ := newTestGame(t)
	if !g.Validate(engine.Inbound{UserID: "u1"}) {
		t.Fatal("turn 1 must accept player index 1")
	}
	if g.Validate(engine.Inbound{UserID: "u0"}) {
		t.Fatal("turn 1 must reject player index 0")
	}
	if g.Validate(engine.Inbound{UserID: "stranger"}) {
		t.Fatal("non-participants are never accepted")
	}

	g.nextTurn()
	if m.Turn() != 2 {
		t.Fatalf("turn: got %d, want 2", m.Turn())
	}
	if !g.Validate(engine.Inbound{UserID: "u0"}) {
		t.Fatal("turn 2 must accept player index 0")
	}
	if g.Validate(engine.Inbound{UserID: "u1"}) {
		t.Fatal("turn 2 must reject player index 1")
	}
}

func TestNextTurnResetsPhaseAndMana(t *testing.T) {
	g, m, _ := newTestGame(t)
	m.SetPhase(PhaseCombat)
	g.nextTurn()
	if m.Phase() != PhasePlan {
		t.Fatalf("phase after turn: got %s, want %s", m.Phase(), PhasePlan)
	}
	if got := g.Hand(0).MP(); got != 5 {
		t.Fatalf("turn 2 mana: got %d, want 5", got)
	}
	if got := g.Hand(0).RemainingDraws(); got != 5 {
		t.Fatalf("draw budget with empty hand: got %d, want 5", got)
	}
}

func TestDiscardFlushRoundTrip(t *testing.T) {
	g, m, _ := newTestGame(t)
	cur := g.Hand(1)
	cur.AddCards(NewSenshi("x", "X", RaceHuman, 0, 0, 100, 100))

	if !play(t, g, m, "1,d") {
		t.Fatal("discard did not match")
	}
	if len(cur.Cards()) != 0 {
		t.Fatal("discarded card still in hand")
	}
	if cur.GraveCount() != 0 {
		t.Fatal("discard must not hit the graveyard before the flush")
	}

	g.nextTurn()
	if cur.GraveCount() != 1 {
		t.Fatalf("graveyard after flush: got %d, want 1", cur.GraveCount())
	}
}

func TestForfeitClosesMatch(t *testing.T) {
	g, m, rep := newTestGame(t)
	if !play(t, g, m, "ff") {
		t.Fatal("forfeit did not match")
	}
	if m.State() != engine.StateClosed {
		t.Fatal("forfeit must close the match")
	}
	if got := m.Outcome().Result; got != engine.ResultForfeit {
		t.Fatalf("result: got %s, want %s", got, engine.ResultForfeit)
	}
	if g.Winner() != "u0" {
		t.Fatalf("winner: got %q, want u0", g.Winner())
	}
	if rep.lastText() == "" {
		t.Fatal("forfeit must be announced")
	}
}

func TestTimeoutForfeitsCurrentPlayer(t *testing.T) {
	g, m, _ := newTestGame(t)
	g.OnTimeout(m.Turn())
	if got := m.Outcome().Result; got != engine.ResultTimeout {
		t.Fatalf("result: got %s, want %s", got, engine.ResultTimeout)
	}
	if g.Winner() != "u0" {
		t.Fatalf("winner: got %q, want u0", g.Winner())
	}
}

func TestUnknownInputMatchesNothing(t *testing.T) {
	g, m, _ := newTestGame(t)
	if play(t, g, m, "bom dia pessoal") {
		t.Fatal("free chat must not match any action")
	}
	// combat-only grammar is unreachable during planning
	if play(t, g, m, "1,2") {
		t.Fatal("attack grammar must be gated to the combat phase")
	}
}

func TestManaCurves(t *testing.T) {
	cases := []struct {
		race Race
		turn int
		want int
	}{
		{RaceHuman, 3, 5},
		{RaceDemon, 1, 6},
		{RaceDemon, 7, 4},
		{RaceDivinity, 10, 6},
		{RaceDivinity, 4, 5},
		{RaceSpirit, 20, 7},
	}
	for _, c := range cases {
		if got := c.race.ManaGain(c.turn, 5); got != c.want {
			t.Errorf("%s turn %d: got %d, want %d", c.race, c.turn, got, c.want)
		}
	}
}
