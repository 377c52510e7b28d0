package lobby

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const ttlLobby = 30 * time.Minute

type Store struct{ rdb *redis.Client }

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

func (s *Store) keyMeta(code string) string     { return "sk:lobby:" + strings.TrimSpace(code) }
func (s *Store) keyCreator(user string) string  { return "sk:lobby:creator:" + strings.TrimSpace(user) }
func (s *Store) keyOpen() string                { return "sk:lobby:open" }

func (s *Store) SaveMeta(ctx context.Context, code string, meta *Meta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.keyMeta(code), raw, ttlLobby).Err()
}

func (s *Store) LoadMeta(ctx context.Context, code string) (*Meta, error) {
	raw, err := s.rdb.Get(ctx, s.keyMeta(code)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Meta
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MarkCreator reserves the one-open-lobby-per-user slot. Returns false when
// the user already holds one.
func (s *Store) MarkCreator(ctx context.Context, userID, code string) (bool, error) {
	return s.rdb.SetNX(ctx, s.keyCreator(userID), code, ttlLobby).Result()
}

func (s *Store) ClearCreator(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, s.keyCreator(userID)).Err()
}

func (s *Store) AddOpen(ctx context.Context, code string) error {
	if err := s.rdb.SAdd(ctx, s.keyOpen(), code).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, s.keyOpen(), ttlLobby).Err()
}

func (s *Store) RemoveOpen(ctx context.Context, code string) error {
	return s.rdb.SRem(ctx, s.keyOpen(), code).Err()
}

// ListOpen returns every lobby still waiting for an opponent.
func (s *Store) ListOpen(ctx context.Context) ([]*Meta, error) {
	codes, err := s.rdb.SMembers(ctx, s.keyOpen()).Result()
	if err != nil {
		return nil, err
	}
	var out []*Meta
	for _, c := range codes {
		m, _ := s.LoadMeta(ctx, c)
		if m == nil || m.State != StateOpen {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// codeGen returns `SK-` + 6 upper alnum.
func codeGen() (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}
	return fmt.Sprintf("SK-%s", string(b)), nil
}
