package render

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/pkg/dueldto"
)

func sampleArena() dueldto.ArenaView {
	front := &dueldto.CardView{Name: "Oni da Montanha", Attack: 500, Defense: 300}
	hidden := &dueldto.CardView{Flipped: true}
	support := &dueldto.CardView{Name: "Kitsune Mensageira", Attack: 300, Defense: 300, Supporting: true}

	v := dueldto.ArenaView{
		Turn:   3,
		Phase:  "PLAN",
		Top:    make([]dueldto.LaneView, 5),
		Bottom: make([]dueldto.LaneView, 5),
	}
	v.Top[0].Top = front
	v.Top[2].Top = hidden
	v.Bottom[1].Top = &dueldto.CardView{Name: "Gashadokuro", Attack: 700, Defense: 400, Defending: true, Equips: []string{"Katana"}}
	v.Bottom[1].Bottom = support
	v.Players[0] = dueldto.PlayerView{Name: "Alice", HP: 4800, MP: 2, HandCount: 4, DeckCount: 20, GraveSize: 1}
	v.Players[1] = dueldto.PlayerView{Name: "Bob", HP: 5000, MP: 5, HandCount: 5, DeckCount: 19, Current: true}
	return v
}

func TestRenderArenaPNG(t *testing.T) {
	r := NewSVGDuelRenderer()

	data, err := r.RenderArenaPNG(context.Background(), sampleArena())
	if err != nil {
		t.Fatalf("render arena: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}

	wantW := 2*sideM + 5*cardW + 4*cellGap
	if got := img.Bounds().Dx(); got != wantW {
		t.Fatalf("width = %d, want %d", got, wantW)
	}
	if img.Bounds().Dy() <= 4*cardH {
		t.Fatalf("height %d too small for four rows", img.Bounds().Dy())
	}
}

func TestRenderArenaPNGMeasuredText(t *testing.T) {
	v := sampleArena()
	v.Top[0].Top.Name = strings.Repeat("Senshi de Nome Muito Comprido ", 4)
	v.Players[0].Name = strings.Repeat("x", 80)
	v.Players[0].HP = 1234567
	v.Bottom[1].Top.Equips = []string{"Katana", "Wakizashi", "Tanto"}

	r := NewSVGDuelRenderer()
	data, err := r.RenderArenaPNG(context.Background(), v)
	if err != nil {
		t.Fatalf("render with oversized labels: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode png: %v", err)
	}
}

func TestTruncateFitsWidth(t *testing.T) {
	face := basicfont.Face7x13
	long := strings.Repeat("Gashadokuro ", 10)
	got := truncate(face, long, cardW-10)

	drawer := font.Drawer{Face: face}
	if w := drawer.MeasureString(got).Round(); w > cardW-10 {
		t.Fatalf("truncated width %d exceeds %d", w, cardW-10)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("missing ellipsis: %q", got)
	}
	if short := truncate(face, "Oni", cardW-10); short != "Oni" {
		t.Fatalf("short name changed: %q", short)
	}
}

func TestRenderArenaPNGRejectsEmptyView(t *testing.T) {
	r := NewSVGDuelRenderer()
	if _, err := r.RenderArenaPNG(context.Background(), dueldto.ArenaView{}); err == nil {
		t.Fatal("expected error for view without lanes")
	}
}

func TestRenderArenaPNGCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewSVGDuelRenderer()
	if _, err := r.RenderArenaPNG(ctx, sampleArena()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRenderHandPNG(t *testing.T) {
	r := NewSVGDuelRenderer()

	view := dueldto.HandView{
		Owner:     "Alice",
		HP:        4800,
		MP:        3,
		Remaining: 1,
		Cards: []dueldto.HandCardView{
			{Name: "Oni da Montanha", Kind: "senshi", Attack: 500, Defense: 300, MPCost: 4, Available: true},
			{Name: "Katana", Kind: "evogear", MPCost: 2, Available: true},
			{Name: "Gashadokuro", Kind: "senshi", Attack: 700, Defense: 400, MPCost: 6, HPCost: 500},
		},
	}

	data, err := r.RenderHandPNG(context.Background(), view)
	if err != nil {
		t.Fatalf("render hand: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}

	wantW := 2*sideM + 3*cardW + 2*cellGap
	if got := img.Bounds().Dx(); got != wantW {
		t.Fatalf("width = %d, want %d", got, wantW)
	}
}

func TestGlyphImageCached(t *testing.T) {
	a, err := glyphImage("sword", 14, 14)
	if err != nil {
		t.Fatalf("glyph: %v", err)
	}
	b, err := glyphImage("sword", 14, 14)
	if err != nil {
		t.Fatalf("glyph: %v", err)
	}
	if a != b {
		t.Fatal("expected cached image on second lookup")
	}

	if _, err := glyphImage("nonexistent", 14, 14); err == nil {
		t.Fatal("expected error for unknown glyph")
	}
}
