package lobby

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/duel"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/obslog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Guard answers whether a player is already duelling in a channel. Satisfied
// by *duel.Manager.
type Guard interface {
	GetActiveDuelByUserInChannel(ctx context.Context, userID, channel string) (*duel.Duel, error)
}

// Manager keeps open lobby codes in redis. Make reserves a code, the second
// Join fills the lobby and hands both participants back to the caller, which
// starts the actual match.
type Manager struct {
	rdb   *redis.Client
	store *Store
	guard Guard
}

func NewManager(rdb *redis.Client, guard Guard) *Manager {
	return &Manager{rdb: rdb, store: NewStore(rdb), guard: guard}
}

func (m *Manager) Make(ctx context.Context, kind, channel, userID, userName string) (*MakeResult, error) {
	if strings.TrimSpace(channel) == "" || strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidArgs
	}
	if busy, _ := m.guard.GetActiveDuelByUserInChannel(ctx, userID, channel); busy != nil {
		return nil, ErrPlayerBusy
	}
	held, err := m.store.MarkCreator(ctx, userID, "pending")
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, ErrCreatorHasOpen
	}

	for i := 0; i < 5; i++ {
		code, err := codeGen()
		if err != nil {
			return nil, err
		}
		ok, err := m.rdb.SetNX(ctx, m.store.keyMeta(code), []byte("{}"), ttlLobby).Result()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		meta := &Meta{
			Code:        code,
			State:       StateOpen,
			Kind:        strings.TrimSpace(kind),
			Channel:     strings.TrimSpace(channel),
			CreatedAt:   time.Now(),
			CreatorID:   strings.TrimSpace(userID),
			CreatorName: strings.TrimSpace(userName),
		}
		if err := m.store.SaveMeta(ctx, code, meta); err != nil {
			return nil, err
		}
		if err := m.store.AddOpen(ctx, code); err != nil {
			return nil, err
		}
		obslog.L().Info("lobby_make",
			zap.String("code", code),
			zap.String("channel", channel),
			zap.String("creator_id", userID),
		)
		return &MakeResult{Code: code, Meta: meta}, nil
	}
	_ = m.store.ClearCreator(ctx, userID)
	return nil, fmt.Errorf("failed to allocate lobby code")
}

// Join fills the lobby. A WATCH on the meta key keeps two concurrent joins
// from both claiming the second seat.
func (m *Manager) Join(ctx context.Context, channel, code, userID, userName string) (*JoinResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if channel == "" || code == "" || strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidArgs
	}
	if busy, _ := m.guard.GetActiveDuelByUserInChannel(ctx, userID, channel); busy != nil {
		return nil, ErrPlayerBusy
	}

	var joined *Meta
	metaK := m.store.keyMeta(code)
	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, metaK).Bytes()
		if err == redis.Nil {
			return ErrLobbyGone
		}
		if err != nil {
			return err
		}
		var cur Meta
		if jerr := json.Unmarshal(raw, &cur); jerr != nil {
			return jerr
		}
		if cur.State != StateOpen {
			return ErrLobbyStarted
		}
		if cur.CreatorID == userID {
			return ErrSelfJoin
		}
		if cur.JoinerID != "" {
			return ErrFull
		}
		cur.JoinerID = strings.TrimSpace(userID)
		cur.JoinerName = strings.TrimSpace(userName)
		cur.State = StateStarted

		pipe := tx.TxPipeline()
		newRaw, merr := json.Marshal(&cur)
		if merr != nil {
			return merr
		}
		pipe.Set(ctx, metaK, newRaw, ttlLobby)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		joined = &cur
		return nil
	}, metaK)
	if err != nil {
		if err == redis.TxFailedErr {
			return nil, ErrFull
		}
		return nil, err
	}

	_ = m.store.RemoveOpen(ctx, code)
	_ = m.store.ClearCreator(ctx, joined.CreatorID)
	obslog.L().Info("lobby_join",
		zap.String("code", code),
		zap.String("channel", channel),
		zap.String("joiner_id", userID),
	)
	return &JoinResult{Started: true, Meta: joined}, nil
}

// BindDuel records the started duel on the lobby meta for later lookup.
func (m *Manager) BindDuel(ctx context.Context, code, duelID string) error {
	meta, err := m.store.LoadMeta(ctx, code)
	if err != nil || meta == nil {
		return err
	}
	meta.DuelID = duelID
	return m.store.SaveMeta(ctx, code, meta)
}

// ListOpen lists lobbies waiting for an opponent.
func (m *Manager) ListOpen(ctx context.Context) ([]*Meta, error) {
	return m.store.ListOpen(ctx)
}
