package duel

import (
	"context"
	"strings"
	"sync"
)

// MemRepository is the in-memory fallback used when DATABASE_URL is unset.
// Records live only for the process lifetime.
type MemRepository struct {
	mu       sync.Mutex
	results  []*Duel
	profiles map[string]*Profile
}

func NewMemRepository() *MemRepository {
	return &MemRepository{profiles: make(map[string]*Profile)}
}

func (r *MemRepository) Close() error { return nil }

func (r *MemRepository) SaveResult(_ context.Context, d *Duel) error {
	if d == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.results = append(r.results, &cp)
	draw := strings.TrimSpace(d.Winner) == ""
	r.bump(d.P1ID, d.P1Name, d.Winner == d.P1ID, draw)
	r.bump(d.P2ID, d.P2Name, d.Winner == d.P2ID, draw)
	return nil
}

func (r *MemRepository) bump(userID, name string, won, draw bool) {
	p := r.profiles[userID]
	if p == nil {
		p = &Profile{UserID: userID}
		r.profiles[userID] = p
	}
	p.Name = name
	switch {
	case draw:
		p.Draws++
		p.Streak = 0
	case won:
		p.Wins++
		p.Streak++
	default:
		p.Losses++
		p.Streak = 0
	}
}

func (r *MemRepository) Profile(_ context.Context, userID string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// Results returns a copy of every stored result.
func (r *MemRepository) Results() []*Duel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Duel, len(r.results))
	copy(out, r.results)
	return out
}
