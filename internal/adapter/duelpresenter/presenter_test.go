package duelpresenter

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"testing"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/render"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/pkg/dueldto"
)

type stubEgress struct {
	mu     sync.Mutex
	texts  map[string][]string
	images map[string][]string
}

func newStubEgress() *stubEgress {
	return &stubEgress{texts: map[string][]string{}, images: map[string][]string{}}
}

func (s *stubEgress) SendText(_ context.Context, channel, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[channel] = append(s.texts[channel], message)
	return nil
}

func (s *stubEgress) SendImage(_ context.Context, channel, imageBase64 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[channel] = append(s.images[channel], imageBase64)
	return nil
}

func smallArena() dueldto.ArenaView {
	v := dueldto.ArenaView{
		Turn:   1,
		Phase:  "PLAN",
		Top:    make([]dueldto.LaneView, 5),
		Bottom: make([]dueldto.LaneView, 5),
	}
	v.Players[0] = dueldto.PlayerView{Name: "Alice", HP: 5000, MP: 0}
	v.Players[1] = dueldto.PlayerView{Name: "Bob", HP: 5000, MP: 5, Current: true}
	return v
}

func TestShoukanPresenterRoutesOutput(t *testing.T) {
	egress := newStubEgress()
	r := render.NewSVGDuelRenderer()
	p := NewShoukanPresenter(egress, r, "duel-chan", map[string]string{"u1": "dm-u1"})

	p.Announce("o duelo começou")
	p.ShowArena(smallArena())
	p.ShowHand(dueldto.HandView{Owner: "u1", MP: 5})
	p.ShowHand(dueldto.HandView{Owner: "u2", MP: 5}) // no private channel

	if got := egress.texts["duel-chan"]; len(got) != 1 || got[0] != "o duelo começou" {
		t.Fatalf("announce = %v", got)
	}
	if len(egress.images["duel-chan"]) != 1 {
		t.Fatalf("arena images = %d, want 1", len(egress.images["duel-chan"]))
	}
	if len(egress.images["dm-u1"]) != 1 {
		t.Fatalf("hand images for u1 = %d, want 1", len(egress.images["dm-u1"]))
	}
	if len(egress.images["dm-u2"])+len(egress.texts["dm-u2"]) != 0 {
		t.Fatal("hand leaked for player without private channel")
	}

	if _, err := base64.StdEncoding.DecodeString(egress.images["duel-chan"][0]); err != nil {
		t.Fatalf("arena payload is not base64: %v", err)
	}
}

func TestChessPresenterShowsBoard(t *testing.T) {
	egress := newStubEgress()
	p := NewChessPresenter(egress, render.NewBoardRenderer(), "c")

	p.ShowBoard("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if len(egress.images["c"]) != 1 {
		t.Fatalf("board images = %d, want 1", len(egress.images["c"]))
	}

	// invalid FEN falls back to a text block
	p.ShowBoard("not-a-position")
	if len(egress.texts["c"]) != 1 || !strings.Contains(egress.texts["c"][0], "not-a-position") {
		t.Fatalf("fallback text = %v", egress.texts["c"])
	}
}
