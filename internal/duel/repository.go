package duel

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Profile is a player's lifetime record across finished duels.
type Profile struct {
	UserID string
	Name   string
	Wins   int
	Losses int
	Draws  int
	Streak int
}

// Repository persists final duel results and player profiles.
type Repository interface {
	SaveResult(ctx context.Context, d *Duel) error
	Profile(ctx context.Context, userID string) (*Profile, error)
	Close() error
}

// PQRepository stores results in postgres.
type PQRepository struct {
	db *sql.DB
}

func NewPQRepository(databaseURL string) (*PQRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &PQRepository{db: db}, nil
}

func (r *PQRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult upserts the final duel record and bumps both player profiles.
func (r *PQRepository) SaveResult(ctx context.Context, d *Duel) error {
	if r == nil || r.db == nil || d == nil {
		return nil
	}
	duration := d.UpdatedAt.Sub(d.CreatedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	q := `INSERT INTO shoukan_duels (
	    duel_id, kind, channel,
	    p1_id, p1_name, p2_id, p2_name,
	    status, winner, outcome, turns,
	    started_at, ended_at, duration_ms
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
	  ) ON CONFLICT (duel_id) DO UPDATE SET
	    status=EXCLUDED.status,
	    winner=EXCLUDED.winner,
	    outcome=EXCLUDED.outcome,
	    turns=EXCLUDED.turns,
	    ended_at=EXCLUDED.ended_at,
	    duration_ms=EXCLUDED.duration_ms`
	if _, err := r.db.ExecContext(ctx, q,
		d.ID, string(d.Kind), d.Channel,
		d.P1ID, d.P1Name, d.P2ID, d.P2Name,
		string(d.Status), d.Winner, d.Outcome, d.Turns,
		d.CreatedAt, d.UpdatedAt, duration,
	); err != nil {
		return err
	}

	draw := strings.TrimSpace(d.Winner) == ""
	if err := r.bumpProfile(ctx, d.P1ID, d.P1Name, d.Winner == d.P1ID, draw); err != nil {
		return err
	}
	return r.bumpProfile(ctx, d.P2ID, d.P2Name, d.Winner == d.P2ID, draw)
}

func (r *PQRepository) bumpProfile(ctx context.Context, userID, name string, won, draw bool) error {
	wins, losses, draws := 0, 0, 0
	switch {
	case draw:
		draws = 1
	case won:
		wins = 1
	default:
		losses = 1
	}
	// streak resets on any non-win
	q := `INSERT INTO duel_profiles (user_id, name, wins, losses, draws, streak)
	  VALUES ($1,$2,$3,$4,$5,$6)
	  ON CONFLICT (user_id) DO UPDATE SET
	    name=EXCLUDED.name,
	    wins=duel_profiles.wins+EXCLUDED.wins,
	    losses=duel_profiles.losses+EXCLUDED.losses,
	    draws=duel_profiles.draws+EXCLUDED.draws,
	    streak=CASE WHEN EXCLUDED.wins > 0 THEN duel_profiles.streak+1 ELSE 0 END`
	streak := 0
	if won {
		streak = 1
	}
	_, err := r.db.ExecContext(ctx, q, userID, name, wins, losses, draws, streak)
	return err
}

func (r *PQRepository) Profile(ctx context.Context, userID string) (*Profile, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	q := `SELECT user_id, name, wins, losses, draws, streak FROM duel_profiles WHERE user_id = $1`
	var p Profile
	err := r.db.QueryRowContext(ctx, q, strings.TrimSpace(userID)).
		Scan(&p.UserID, &p.Name, &p.Wins, &p.Losses, &p.Draws, &p.Streak)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
