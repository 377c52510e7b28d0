package chessmatch

import (
	"strings"
	"testing"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/engine"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/msgcat"
)

type stubReporter struct {
	texts []string
	fens  []string
}

func (r *stubReporter) Announce(t string)    { r.texts = append(r.texts, t) }
func (r *stubReporter) ShowBoard(fen string) { r.fens = append(r.fens, fen) }

func newTestChess(t *testing.T) (*Chess, *engine.Match, *stubReporter) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	rep := &stubReporter{}
	c := New(Player{UID: "black", Name: "Preto"}, Player{UID: "white", Name: "Branco"}, rep, cat)
	m := engine.NewMatch("chess-test", c, []string{"c1"}, PhaseMove, 0)
	c.Bind(m)
	if err := c.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	return c, m, rep
}

func playMove(t *testing.T, c *Chess, raw string) {
	t.Helper()
	text := engine.Normalize(raw)
	for _, a := range c.Actions() {
		sub := a.Pattern.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		p := make(engine.Params)
		for i, name := range a.Pattern.SubexpNames() {
			if i > 0 && name != "" {
				p[name] = sub[i]
			}
		}
		a.Handle(p)
		return
	}
	t.Fatalf("input %q matched no action", raw)
}

func TestMoveAdvancesTurn(t *testing.T) {
	c, m, rep := newTestChess(t)

	if !c.Validate(engine.Inbound{UserID: "white"}) {
		t.Fatal("white must move on turn 1")
	}
	playMove(t, c, "E2E4")
	if m.Turn() != 2 {
		t.Fatalf("turn: got %d, want 2", m.Turn())
	}
	if !c.Validate(engine.Inbound{UserID: "black"}) {
		t.Fatal("black must move on turn 2")
	}
	if len(rep.fens) < 2 {
		t.Fatal("each legal move must render the board")
	}
	if !strings.Contains(rep.fens[len(rep.fens)-1], " b ") {
		t.Fatalf("position after e2e4 must be black to move: %s", rep.fens[len(rep.fens)-1])
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	c, m, rep := newTestChess(t)

	playMove(t, c, "e2e5")
	if m.Turn() != 1 {
		t.Fatal("illegal move must not advance the turn")
	}
	if len(rep.texts) == 0 {
		t.Fatal("illegal move must be reported")
	}
}

func TestFoolsMateEndsMatch(t *testing.T) {
	c, m, _ := newTestChess(t)

	for _, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		playMove(t, c, mv)
	}
	if m.State() != engine.StateClosed {
		t.Fatal("checkmate must close the match")
	}
	if got := m.Outcome().Result; got != engine.ResultSuccess {
		t.Fatalf("result: got %s, want %s", got, engine.ResultSuccess)
	}
	if c.Winner() != "black" {
		t.Fatalf("winner: got %q, want black", c.Winner())
	}
}

func TestResign(t *testing.T) {
	c, m, _ := newTestChess(t)

	playMove(t, c, "ff")
	if got := m.Outcome().Result; got != engine.ResultForfeit {
		t.Fatalf("result: got %s, want %s", got, engine.ResultForfeit)
	}
	if c.Winner() != "black" {
		t.Fatalf("winner after white resigns: got %q, want black", c.Winner())
	}
}
