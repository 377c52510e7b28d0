package duel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/engine"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/obslog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const ttlDuel = 24 * time.Hour

// Manager is the duel registry: redis-backed duel records with per-user
// indexes, a live map of running matches, and an optional repository for
// final results.
type Manager struct {
	rdb  *redis.Client
	repo Repository

	mu   sync.Mutex
	live map[string]*engine.Match // duel id → running match
}

func NewManager(redisURL string) (*Manager, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for duel manager")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Manager{rdb: rdb, live: make(map[string]*engine.Match)}, nil
}

func (m *Manager) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}

// Redis exposes the backing client so sibling managers can share it.
func (m *Manager) Redis() *redis.Client { return m.rdb }

// AttachRepository wires a repository for persisting final results.
func (m *Manager) AttachRepository(r Repository) {
	if m != nil {
		m.repo = r
	}
}

// Create registers a new duel after checking both players are free in the
// channel.
func (m *Manager) Create(ctx context.Context, kind Kind, channel, p1ID, p1Name, p2ID, p2Name string) (*Duel, error) {
	if strings.TrimSpace(channel) == "" || strings.TrimSpace(p1ID) == "" || strings.TrimSpace(p2ID) == "" {
		return nil, ErrInvalidArgs
	}
	for _, uid := range []string{p1ID, p2ID} {
		if busy, err := m.GetActiveDuelByUserInChannel(ctx, uid, channel); err != nil {
			return nil, err
		} else if busy != nil {
			return nil, ErrPlayerBusy
		}
	}

	d := &Duel{
		ID:        uuid.NewString(),
		Kind:      kind,
		Channel:   strings.TrimSpace(channel),
		P1ID:      strings.TrimSpace(p1ID),
		P1Name:    strings.TrimSpace(p1Name),
		P2ID:      strings.TrimSpace(p2ID),
		P2Name:    strings.TrimSpace(p2Name),
		Status:    StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := m.save(ctx, d); err != nil {
		return nil, err
	}
	if err := m.indexParticipants(ctx, d.ID, d.P1ID, d.P2ID); err != nil {
		return nil, err
	}
	obslog.L().Info("duel_create",
		zap.String("duel_id", d.ID),
		zap.String("kind", string(d.Kind)),
		zap.String("channel", d.Channel),
		zap.String("p1_id", d.P1ID),
		zap.String("p2_id", d.P2ID),
	)
	return d, nil
}

// GetActiveDuelByUserInChannel returns the most recent active duel for the
// user scoped to the channel, nil when there is none.
func (m *Manager) GetActiveDuelByUserInChannel(ctx context.Context, userID, channel string) (*Duel, error) {
	userID = strings.TrimSpace(userID)
	channel = strings.TrimSpace(channel)
	if userID == "" || channel == "" {
		return nil, nil
	}
	ids, err := m.rdb.SMembers(ctx, idxUserKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	var list []*Duel
	for _, id := range ids {
		d, gerr := m.get(ctx, id)
		if gerr != nil || d == nil {
			continue
		}
		if d.Status == StatusActive && d.Channel == channel {
			list = append(list, d)
		}
	}
	if len(list) == 0 {
		return nil, nil
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list[0], nil
}

// Finish seals the duel record with the match outcome and persists the final
// result when a repository is attached. Concurrent finishes lose the WATCH
// and are ignored.
func (m *Manager) Finish(ctx context.Context, duelID, winner string, out engine.Outcome) (*Duel, error) {
	var final *Duel
	duelK := duelKey(duelID)
	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, duelK).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var cur Duel
		if jerr := json.Unmarshal(raw, &cur); jerr != nil {
			return jerr
		}
		if cur.Status != StatusActive {
			return redis.TxFailedErr
		}
		cur.Status = statusFrom(out.Result)
		cur.Winner = strings.TrimSpace(winner)
		cur.Outcome = string(out.Result)
		cur.Turns = out.Turn
		cur.UpdatedAt = time.Now()

		pipe := tx.TxPipeline()
		newRaw, _ := json.Marshal(&cur)
		pipe.Set(ctx, duelK, newRaw, ttlDuel)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		final = &cur
		return nil
	}, duelK)
	if err != nil {
		if err == redis.TxFailedErr {
			return nil, nil
		}
		return nil, err
	}

	m.Deregister(duelID)
	obslog.L().Info("duel_finish",
		zap.String("duel_id", final.ID),
		zap.String("status", string(final.Status)),
		zap.String("winner", final.Winner),
		zap.Int("turns", final.Turns),
	)
	if m.repo != nil {
		if err := m.repo.SaveResult(ctx, final); err != nil {
			obslog.L().Error("duel_persist_error", zap.String("duel_id", final.ID), zap.Error(err))
		}
	}
	return final, nil
}

func statusFrom(r engine.Result) Status {
	switch r {
	case engine.ResultForfeit:
		return StatusForfeit
	case engine.ResultTimeout:
		return StatusTimeout
	case engine.ResultSuccess:
		return StatusFinished
	default:
		return StatusAborted
	}
}

// Register tracks a running match for graceful shutdown.
func (m *Manager) Register(duelID string, match *engine.Match) {
	m.mu.Lock()
	m.live[duelID] = match
	m.mu.Unlock()
}

func (m *Manager) Deregister(duelID string) {
	m.mu.Lock()
	delete(m.live, duelID)
	m.mu.Unlock()
}

// AbortAll closes every running match, used on shutdown.
func (m *Manager) AbortAll() {
	m.mu.Lock()
	matches := make([]*engine.Match, 0, len(m.live))
	for _, match := range m.live {
		matches = append(matches, match)
	}
	m.live = make(map[string]*engine.Match)
	m.mu.Unlock()
	for _, match := range matches {
		match.Close(engine.ResultAborted, nil)
	}
}

func (m *Manager) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Load returns the duel record by id.
func (m *Manager) Load(ctx context.Context, id string) (*Duel, error) {
	return m.get(ctx, id)
}

func (m *Manager) save(ctx context.Context, d *Duel) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, duelKey(d.ID), raw, ttlDuel).Err()
}

func (m *Manager) get(ctx context.Context, id string) (*Duel, error) {
	raw, err := m.rdb.Get(ctx, duelKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d Duel
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *Manager) indexParticipants(ctx context.Context, id string, users ...string) error {
	for _, uid := range users {
		if strings.TrimSpace(uid) == "" {
			continue
		}
		key := idxUserKey(uid)
		if err := m.rdb.SAdd(ctx, key, id).Err(); err != nil {
			return err
		}
		_ = m.rdb.Expire(ctx, key, ttlDuel).Err()
	}
	return nil
}

func duelKey(id string) string      { return "duel:game:" + strings.TrimSpace(id) }
func idxUserKey(user string) string { return "duel:index:user:" + strings.TrimSpace(user) }

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
