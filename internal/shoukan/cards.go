package shoukan

import "math/rand"

// starter card pool, shared by every deck until real collections exist
var starterSenshi = []*Senshi{
	NewSenshi("s_ronin", "Ronin Errante", RaceHuman, 2, 0, 300, 200),
	NewSenshi("s_miko", "Miko do Santuário", RaceSpirit, 2, 0, 200, 300),
	NewSenshi("s_oni", "Oni da Montanha", RaceDemon, 4, 0, 500, 300),
	NewSenshi("s_kitsune", "Kitsune de Nove Caudas", RaceSpirit, 5, 0, 500, 500),
	NewSenshi("s_gashadokuro", "Gashadokuro", RaceUndead, 6, 500, 700, 400),
	NewSenshi("s_komainu", "Komainu Guardião", RaceBeast, 3, 0, 250, 450),
	NewSenshi("s_tengu", "Tengu do Vale", RaceDemon, 3, 0, 400, 250),
	NewSenshi("s_yurei", "Yurei Silente", RaceUndead, 1, 0, 150, 150),
	NewSenshi("s_raiju", "Raiju Tempestuoso", RaceBeast, 4, 0, 450, 350),
	NewSenshi("s_amaterasu", "Avatar de Amaterasu", RaceDivinity, 8, 1000, 900, 700),
	NewSenshi("s_kappa", "Kappa do Rio", RaceBeast, 1, 0, 200, 100),
	NewSenshi("s_onmyoji", "Onmyoji da Corte", RaceHuman, 3, 0, 300, 350),
}

var starterEvogear = []*Evogear{
	NewEvogear("e_katana", "Katana Abençoada", 1, 2, 0, 200, 0),
	NewEvogear("e_tessen", "Tessen de Ferro", 1, 1, 0, 50, 100),
	NewEvogear("e_oyoroi", "Ō-yoroi Ancestral", 2, 3, 0, 0, 300),
	NewEvogear("e_ofuda", "Ofuda Selante", 1, 1, 100, 100, 100),
	NewEvogear("e_naginata", "Naginata Celeste", 3, 4, 0, 350, 50),
	NewEvogear("e_kabuto", "Kabuto do General", 2, 2, 0, 50, 250),
}

// StarterDeck builds a shuffled deck of fresh copies from the starter pool.
// Two copies of each senshi and one of each equipment keep the curve playable
// for a full match.
func StarterDeck(rng *rand.Rand) []Drawable {
	deck := make([]Drawable, 0, len(starterSenshi)*2+len(starterEvogear))
	for _, s := range starterSenshi {
		deck = append(deck, s.Copy(), s.Copy())
	}
	for _, e := range starterEvogear {
		deck = append(deck, e.Copy())
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// DeckRace is the archetype driving the mana curve of a starter deck. With a
// single shared pool every deck plays as human; collection-driven decks can
// override this later.
func DeckRace() Race { return RaceHuman }
