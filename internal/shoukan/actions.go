package shoukan

import (
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/engine"
)

// buildActions declares the command grammar. Order matters: the first action
// whose phase guard passes and whose pattern matches the full normalized
// input wins.
func (s *Shoukan) buildActions() []engine.Action {
	return []engine.Action{
		engine.MustAction("place", `(?P<inHand>\d+),(?P<mode>[adb]),(?P<inField>[1-5])(?P<notCombat>,nc)?`, s.actPlace, PhasePlan),
		engine.MustAction("equip", `(?P<inHand>\d+),e,(?P<inField>[1-5])`, s.actEquip, PhasePlan),
		engine.MustAction("flip", `(?P<inField>[1-5]),f(?P<notCombat>,nc)?`, s.actFlip, PhasePlan),
		engine.MustAction("promote", `(?P<inField>[1-5]),p`, s.actPromote, PhasePlan),
		engine.MustAction("sacrifice", `(?P<inField>[1-5]),s(?P<notCombat>,nc)?`, s.actSacrifice, PhasePlan),
		engine.MustAction("discard", `(?P<inHand>\d+),d`, s.actDiscard, PhasePlan),
		engine.MustAction("draw", `draw`, s.actDraw, PhasePlan),
		engine.MustAction("combat_phase", `atk`, s.actCombatPhase, PhasePlan),
		engine.MustAction("end_turn", `end`, s.actEnd),
		engine.MustAction("forfeit", `ff`, s.actForfeit),
		engine.MustAction("attack", `(?P<inField>[1-5])(?:,(?P<inTarget>[1-5]))?`, s.actAttack, PhaseCombat),
	}
}

// actPlace puts a hand card onto the acting player's side: top slot for
// combat placement, bottom slot with the nc flag for support. Mode a/d/b
// picks attack, defending or facedown posture.
func (s *Shoukan) actPlace(p engine.Params) bool {
	cur := s.current()
	card := cur.Card(p.Int("inHand"))
	if card == nil {
		return s.sayErr("shoukan.error.hand_index", map[string]any{"Index": p.Int("inHand")})
	}
	if !card.Available() {
		return s.sayErr("shoukan.error.unavailable", nil)
	}
	senshi, ok := card.(*Senshi)
	if !ok {
		return s.sayErr("shoukan.error.wrong_type", nil)
	}
	if card.HPCost() >= cur.HP() {
		return s.sayErr("shoukan.error.hp", map[string]any{"Cost": card.HPCost()})
	}
	if card.MPCost() > cur.MP() {
		return s.sayErr("shoukan.error.mp", map[string]any{"Cost": card.MPCost()})
	}
	sc := s.arena.Slot(cur.Side(), p.Int("inField"))
	support := p.Has("notCombat")
	if (support && sc.HasBottom()) || (!support && sc.HasTop()) {
		return s.sayErr("shoukan.error.occupied", map[string]any{"Lane": p.Int("inField")})
	}

	cur.ModHP(-card.HPCost())
	cur.ModMP(-card.MPCost())
	card.SetAvailable(false)

	placed := senshi.Copy().(*Senshi)
	placed.SetAvailable(true)
	switch p["mode"] {
	case "d":
		placed.SetDefending(true)
	case "b":
		placed.SetFlipped(true)
	}
	if support {
		placed.SetSupporting(true)
		sc.SetBottom(placed)
	} else {
		sc.SetTop(placed)
	}
	s.match.ResetTimer()
	return true
}

// actEquip attaches an equipment card to an occupied top slot, capped at 3
// attachments per card.
func (s *Shoukan) actEquip(p engine.Params) bool {
	cur := s.current()
	card := cur.Card(p.Int("inHand"))
	if card == nil {
		return s.sayErr("shoukan.error.hand_index", map[string]any{"Index": p.Int("inHand")})
	}
	if !card.Available() {
		return s.sayErr("shoukan.error.unavailable", nil)
	}
	gear, ok := card.(*Evogear)
	if !ok {
		return s.sayErr("shoukan.error.wrong_type", nil)
	}
	if card.HPCost() >= cur.HP() {
		return s.sayErr("shoukan.error.hp", map[string]any{"Cost": card.HPCost()})
	}
	if card.MPCost() > cur.MP() {
		return s.sayErr("shoukan.error.mp", map[string]any{"Cost": card.MPCost()})
	}
	sc := s.arena.Slot(cur.Side(), p.Int("inField"))
	if !sc.HasTop() {
		return s.sayErr("shoukan.error.equip_target", nil)
	}
	host := sc.Top()
	if len(host.Equips()) >= 3 {
		return s.sayErr("shoukan.error.equip_limit", nil)
	}

	cur.ModHP(-card.HPCost())
	cur.ModMP(-card.MPCost())
	card.SetAvailable(false)
	host.Attach(gear.Copy().(*Evogear))
	s.match.ResetTimer()
	return true
}

// actFlip reveals a facedown card, or toggles the defending posture of a
// face-up one. The nc flag targets the bottom slot.
func (s *Shoukan) actFlip(p engine.Params) bool {
	cur := s.current()
	sc := s.arena.Slot(cur.Side(), p.Int("inField"))
	target := sc.Top()
	if p.Has("notCombat") {
		target = sc.Bottom()
	}
	if target == nil {
		return s.sayErr("shoukan.error.empty_slot", map[string]any{"Lane": p.Int("inField")})
	}
	if target.Flipped() {
		target.SetFlipped(false)
	} else {
		target.SetDefending(!target.Defending())
	}
	s.match.ResetTimer()
	return false
}

// actPromote moves a support card from the bottom slot into its column's
// empty top slot.
func (s *Shoukan) actPromote(p engine.Params) bool {
	cur := s.current()
	sc := s.arena.Slot(cur.Side(), p.Int("inField"))
	if !sc.HasBottom() {
		return s.sayErr("shoukan.error.empty_slot", map[string]any{"Lane": p.Int("inField")})
	}
	if sc.HasTop() {
		return s.sayErr("shoukan.error.promote_blocked", nil)
	}
	card := sc.Bottom()
	sc.SetBottom(nil)
	card.SetSupporting(false)
	sc.SetTop(card)
	s.match.ResetTimer()
	return false
}

// actSacrifice buries an occupied card at half its play costs, with the same
// sufficiency checks applied to the halved amounts.
func (s *Shoukan) actSacrifice(p engine.Params) bool {
	cur := s.current()
	sc := s.arena.Slot(cur.Side(), p.Int("inField"))
	target := sc.Top()
	if p.Has("notCombat") {
		target = sc.Bottom()
	}
	if target == nil {
		return s.sayErr("shoukan.error.empty_slot", map[string]any{"Lane": p.Int("inField")})
	}
	hpCost := target.HPCost() / 2
	mpCost := target.MPCost() / 2
	if hpCost >= cur.HP() {
		return s.sayErr("shoukan.error.hp", map[string]any{"Cost": hpCost})
	}
	if mpCost > cur.MP() {
		return s.sayErr("shoukan.error.mp", map[string]any{"Cost": mpCost})
	}

	cur.ModHP(-hpCost)
	cur.ModMP(-mpCost)
	if p.Has("notCombat") {
		sc.SetBottom(nil)
	} else {
		sc.SetTop(nil)
	}
	cur.ToGrave(target)
	s.match.ResetTimer()
	return false
}

// actDiscard drops a hand card into the discard pile; the end-of-turn flush
// moves it to the graveyard permanently.
func (s *Shoukan) actDiscard(p engine.Params) bool {
	cur := s.current()
	i := p.Int("inHand")
	card := cur.Card(i)
	if card == nil {
		return s.sayErr("shoukan.error.hand_index", map[string]any{"Index": i})
	}
	if !card.Available() {
		return s.sayErr("shoukan.error.unavailable", nil)
	}
	cur.ToDiscard(i)
	s.match.ResetTimer()
	return true
}

func (s *Shoukan) actDraw(engine.Params) bool {
	cur := s.current()
	if cur.RemainingDraws() <= 0 {
		return s.sayErr("shoukan.error.no_draws", nil)
	}
	if cur.DeckCount() == 0 {
		return s.sayErr("shoukan.error.empty_deck", nil)
	}
	cur.Draw(1)
	s.match.ResetTimer()
	return true
}

func (s *Shoukan) actCombatPhase(engine.Params) bool {
	s.match.SetPhase(PhaseCombat)
	s.reporter.Announce(s.text("shoukan.phase_combat", map[string]any{"Player": s.current().Name()}))
	s.match.ResetTimer()
	return false
}

func (s *Shoukan) actEnd(engine.Params) bool {
	s.nextTurn()
	return false
}

func (s *Shoukan) actForfeit(engine.Params) bool {
	loser := s.current()
	winner := s.opponent()
	loser.SetForfeit(true)
	s.winnerUID = winner.UID()
	s.reporter.Announce(s.text("shoukan.forfeit", map[string]any{
		"Player": loser.Name(), "Winner": winner.Name(),
	}))
	s.skipRender = true
	s.match.Close(engine.ResultForfeit, nil)
	return false
}

// actAttack resolves lane combat. A missing target is a direct attack and,
// like any strike past the top row, requires the defending top row to be
// entirely empty.
func (s *Shoukan) actAttack(p engine.Params) bool {
	cur, foe := s.current(), s.opponent()
	sc := s.arena.Slot(cur.Side(), p.Int("inField"))
	attacker := sc.Top()
	if attacker == nil {
		return s.sayErr("shoukan.error.empty_slot", map[string]any{"Lane": p.Int("inField")})
	}
	if !attacker.Available() || attacker.Flipped() || attacker.Defending() {
		return s.sayErr("shoukan.error.cannot_attack", nil)
	}
	dmg := attacker.Damage()

	if !p.Has("inTarget") {
		if !s.arena.IsFieldEmpty(foe.Side()) {
			return s.sayErr("shoukan.error.screened", nil)
		}
		attacker.SetAvailable(false)
		foe.ModHP(-dmg)
		s.match.ResetTimer()
		s.checkWin()
		return false
	}

	target := s.arena.Slot(foe.Side(), p.Int("inTarget"))
	switch {
	case target.HasTop():
		defender := target.Top()
		val := defender.ActiveAttr()
		defender.SetFlipped(false)
		attacker.SetAvailable(false)
		switch {
		case dmg > val:
			target.SetTop(nil)
			foe.ToGrave(defender)
			foe.ModHP(-(dmg - val))
		case dmg < val:
			sc.SetTop(nil)
			cur.ToGrave(attacker)
			cur.ModHP(-(val - dmg))
		default:
			target.SetTop(nil)
			sc.SetTop(nil)
			foe.ToGrave(defender)
			cur.ToGrave(attacker)
		}
	case target.HasBottom():
		// a stacked support is exposed only once no top-row screen remains
		if !s.arena.IsFieldEmpty(foe.Side()) {
			return s.sayErr("shoukan.error.screened", nil)
		}
		support := target.Bottom()
		attacker.SetAvailable(false)
		target.SetBottom(nil)
		foe.ToGrave(support)
		foe.ModHP(-dmg)
	default:
		if !s.arena.IsFieldEmpty(foe.Side()) {
			return s.sayErr("shoukan.error.screened", nil)
		}
		attacker.SetAvailable(false)
		foe.ModHP(-dmg)
	}
	s.match.ResetTimer()
	s.checkWin()
	return false
}

func (s *Shoukan) checkWin() {
	switch {
	case s.hands[0].HP() <= 0:
		s.win(s.hands[1], engine.ResultSuccess)
	case s.hands[1].HP() <= 0:
		s.win(s.hands[0], engine.ResultSuccess)
	}
}
