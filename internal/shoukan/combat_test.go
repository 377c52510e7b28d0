package shoukan

import (
	"testing"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/engine"
)

// combatSetup puts an attacker on the acting side and switches to the combat
// phase. Senshi stats are chosen so Damage()/ActiveAttr() equal the raw
// attack/defense values under test.
func combatSetup(t *testing.T, atk int) (*Shoukan, *engine.Match, *Senshi) {
	t.Helper()
	g, m, _ := newTestGame(t)
	attacker := NewSenshi("atk", "Atacante", RaceHuman, 0, 0, atk, 100)
	g.Arena().Slot(g.Hand(1).Side(), 1).SetTop(attacker)
	m.SetPhase(PhaseCombat)
	return g, m, attacker
}

func TestAttackDefenderDiesWithOverflow(t *testing.T) {
	g, m, attacker := combatSetup(t, 500)
	defender := NewSenshi("def", "Defensor", RaceHuman, 0, 0, 300, 100)
	g.Arena().Slot(TopSide, 1).SetTop(defender)

	play(t, g, m, "1,1")

	if g.Arena().Slot(TopSide, 1).HasTop() {
		t.Fatal("defender must die")
	}
	if got := g.Hand(0).HP(); got != 4800 {
		t.Fatalf("defending player HP: got %d, want 4800", got)
	}
	if g.Hand(1).HP() != 5000 {
		t.Fatal("attacking player must take no damage")
	}
	if attacker.Available() {
		t.Fatal("attacker must be spent after striking")
	}
	if g.Hand(0).GraveCount() != 1 {
		t.Fatal("defender must reach its owner's graveyard")
	}
}

func TestAttackEqualStatsBothDieNoDamage(t *testing.T) {
	g, m, _ := combatSetup(t, 300)
	defender := NewSenshi("def", "Defensor", RaceHuman, 0, 0, 300, 100)
	g.Arena().Slot(TopSide, 1).SetTop(defender)

	play(t, g, m, "1,1")

	if g.Arena().Slot(TopSide, 1).HasTop() || g.Arena().Slot(BottomSide, 1).HasTop() {
		t.Fatal("both cards must die on equal stats")
	}
	if g.Hand(0).HP() != 5000 || g.Hand(1).HP() != 5000 {
		t.Fatal("no player damage on equal stats")
	}
}

func TestAttackAttackerDiesWithOverflow(t *testing.T) {
	g, m, _ := combatSetup(t, 300)
	defender := NewSenshi("def", "Defensor", RaceHuman, 0, 0, 500, 100)
	g.Arena().Slot(TopSide, 1).SetTop(defender)

	play(t, g, m, "1,1")

	if g.Arena().Slot(BottomSide, 1).HasTop() {
		t.Fatal("attacker must die")
	}
	if !g.Arena().Slot(TopSide, 1).HasTop() {
		t.Fatal("defender must survive")
	}
	if got := g.Hand(1).HP(); got != 4800 {
		t.Fatalf("attacking player HP: got %d, want 4800", got)
	}
	if g.Hand(0).HP() != 5000 {
		t.Fatal("defending player must take no damage")
	}
}

func TestAttackDefendingPostureDoublesDefense(t *testing.T) {
	g, m, _ := combatSetup(t, 500)
	defender := NewSenshi("def", "Defensor", RaceHuman, 0, 0, 100, 300)
	defender.SetDefending(true)
	g.Arena().Slot(TopSide, 1).SetTop(defender)

	// active attribute is 600, the attacker loses by 100
	play(t, g, m, "1,1")

	if g.Arena().Slot(BottomSide, 1).HasTop() {
		t.Fatal("attacker must die against the doubled defense")
	}
	if got := g.Hand(1).HP(); got != 4900 {
		t.Fatalf("attacking player HP: got %d, want 4900", got)
	}
}

func TestAttackRevealsFacedownDefender(t *testing.T) {
	g, m, _ := combatSetup(t, 100)
	defender := NewSenshi("def", "Defensor", RaceHuman, 0, 0, 100, 300)
	defender.SetFlipped(true)
	g.Arena().Slot(TopSide, 1).SetTop(defender)

	// facedown resolves as defending: active attribute 600
	play(t, g, m, "1,1")

	if defender.Flipped() {
		t.Fatal("combat must reveal the facedown card")
	}
	if got := g.Hand(1).HP(); got != 4500 {
		t.Fatalf("attacking player HP: got %d, want 4500", got)
	}
}

func TestAttackSupportingDefenderFullDamageThrough(t *testing.T) {
	g, m, _ := combatSetup(t, 500)
	support := NewSenshi("sup", "Suporte", RaceHuman, 0, 0, 200, 200)
	support.SetSupporting(true)
	g.Arena().Slot(TopSide, 2).SetBottom(support)

	play(t, g, m, "1,2")

	if g.Arena().Slot(TopSide, 2).HasBottom() {
		t.Fatal("supporting defender must be destroyed outright")
	}
	if got := g.Hand(0).HP(); got != 4500 {
		t.Fatalf("defending player HP: got %d, want 4500", got)
	}
}

func TestAttackSupportScreenedByTopRow(t *testing.T) {
	g, m, _ := combatSetup(t, 500)
	support := NewSenshi("sup", "Suporte", RaceHuman, 0, 0, 200, 200)
	support.SetSupporting(true)
	g.Arena().Slot(TopSide, 2).SetBottom(support)
	screen := NewSenshi("scr", "Escudo", RaceHuman, 0, 0, 300, 300)
	g.Arena().Slot(TopSide, 4).SetTop(screen)

	play(t, g, m, "1,2")

	if !g.Arena().Slot(TopSide, 2).HasBottom() {
		t.Fatal("screened support must survive")
	}
	if g.Hand(0).HP() != 5000 {
		t.Fatal("screened attack must deal no damage")
	}
}

func TestDirectAttackEmptyField(t *testing.T) {
	g, m, _ := combatSetup(t, 500)

	play(t, g, m, "1")

	if got := g.Hand(0).HP(); got != 4500 {
		t.Fatalf("defending player HP: got %d, want 4500", got)
	}
}

func TestDirectAttackBlockedByScreen(t *testing.T) {
	g, m, _ := combatSetup(t, 500)
	screen := NewSenshi("scr", "Escudo", RaceHuman, 0, 0, 300, 300)
	g.Arena().Slot(TopSide, 3).SetTop(screen)

	play(t, g, m, "1")

	if g.Hand(0).HP() != 5000 {
		t.Fatal("direct attack through a screen must be rejected")
	}
}

func TestAttackPostureRestrictions(t *testing.T) {
	g, m, attacker := combatSetup(t, 500)

	attacker.SetDefending(true)
	play(t, g, m, "1")
	if g.Hand(0).HP() != 5000 {
		t.Fatal("a defending card must not attack")
	}

	attacker.SetDefending(false)
	attacker.SetFlipped(true)
	play(t, g, m, "1")
	if g.Hand(0).HP() != 5000 {
		t.Fatal("a facedown card must not attack")
	}

	attacker.SetFlipped(false)
	attacker.SetAvailable(false)
	play(t, g, m, "1")
	if g.Hand(0).HP() != 5000 {
		t.Fatal("a spent card must not attack twice in a turn")
	}
}

func TestEquipmentDiesWithHost(t *testing.T) {
	g, m, _ := combatSetup(t, 900)
	defender := NewSenshi("def", "Defensor", RaceHuman, 0, 0, 300, 100)
	defender.Attach(NewEvogear("e", "Katana", 1, 0, 0, 100, 0))
	g.Arena().Slot(TopSide, 1).SetTop(defender)

	// defender active attribute is 400 with the katana
	play(t, g, m, "1,1")

	if got := g.Hand(0).HP(); got != 4500 {
		t.Fatalf("defending player HP: got %d, want 4500", got)
	}
	if got := g.Hand(0).GraveCount(); got != 2 {
		t.Fatalf("graveyard: got %d cards, want host plus equipment", got)
	}
}

func TestLethalAttackClosesMatch(t *testing.T) {
	g, m, _ := combatSetup(t, 600)
	g.Hand(0).ModHP(-4500) // 500 left

	play(t, g, m, "1")

	if m.State() != engine.StateClosed {
		t.Fatal("lethal damage must close the match")
	}
	if got := m.Outcome().Result; got != engine.ResultSuccess {
		t.Fatalf("result: got %s, want %s", got, engine.ResultSuccess)
	}
	if g.Winner() != "u1" {
		t.Fatalf("winner: got %q, want u1", g.Winner())
	}
}
