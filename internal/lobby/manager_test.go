package lobby

import (
	"context"
	"testing"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/duel"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type stubGuard struct {
	busy map[string]bool // userID+"|"+channel
}

func (g *stubGuard) GetActiveDuelByUserInChannel(_ context.Context, userID, channel string) (*duel.Duel, error) {
	if g.busy[userID+"|"+channel] {
		return &duel.Duel{ID: "existing"}, nil
	}
	return nil, nil
}

func newTestManager(t *testing.T) (*Manager, *stubGuard, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	guard := &stubGuard{busy: make(map[string]bool)}
	return NewManager(rdb, guard), guard, func() { rdb.Close(); mr.Close() }
}

func TestMakeJoinFillsLobby(t *testing.T) {
	m, _, cleanup := newTestManager(t)
	defer cleanup()
	ctx := context.Background()

	mk, err := m.Make(ctx, "shoukan", "chanA", "u1", "Alice")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if mk.Code == "" {
		t.Fatal("expected non-empty code")
	}

	open, err := m.ListOpen(ctx)
	if err != nil || len(open) != 1 {
		t.Fatalf("ListOpen: %v %v", open, err)
	}

	jr, err := m.Join(ctx, "chanA", mk.Code, "u2", "Bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !jr.Started || jr.Meta.JoinerID != "u2" || jr.Meta.CreatorID != "u1" {
		t.Fatalf("join result: %+v", jr.Meta)
	}

	open, _ = m.ListOpen(ctx)
	if len(open) != 0 {
		t.Fatal("filled lobby must leave the open list")
	}
}

func TestJoinGuards(t *testing.T) {
	m, guard, cleanup := newTestManager(t)
	defer cleanup()
	ctx := context.Background()

	mk, err := m.Make(ctx, "shoukan", "chanA", "u1", "Alice")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}

	if _, err := m.Join(ctx, "chanA", "SK-NOPE99", "u2", "Bob"); err != ErrLobbyGone {
		t.Fatalf("missing code: got %v, want ErrLobbyGone", err)
	}
	if _, err := m.Join(ctx, "chanA", mk.Code, "u1", "Alice"); err != ErrSelfJoin {
		t.Fatalf("self join: got %v, want ErrSelfJoin", err)
	}

	guard.busy["u3|chanA"] = true
	if _, err := m.Join(ctx, "chanA", mk.Code, "u3", "Carol"); err != ErrPlayerBusy {
		t.Fatalf("busy join: got %v, want ErrPlayerBusy", err)
	}

	if _, err := m.Join(ctx, "chanA", mk.Code, "u2", "Bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	// third player finds the lobby already started
	if _, err := m.Join(ctx, "chanA", mk.Code, "u4", "Dan"); err != ErrLobbyStarted {
		t.Fatalf("late join: got %v, want ErrLobbyStarted", err)
	}
}

func TestMakeGuards(t *testing.T) {
	m, guard, cleanup := newTestManager(t)
	defer cleanup()
	ctx := context.Background()

	guard.busy["u1|chanA"] = true
	if _, err := m.Make(ctx, "shoukan", "chanA", "u1", "Alice"); err != ErrPlayerBusy {
		t.Fatalf("busy make: got %v, want ErrPlayerBusy", err)
	}

	if _, err := m.Make(ctx, "shoukan", "chanA", "u2", "Bob"); err != nil {
		t.Fatalf("Make: %v", err)
	}
	if _, err := m.Make(ctx, "chess", "chanB", "u2", "Bob"); err != ErrCreatorHasOpen {
		t.Fatalf("duplicate lobby: got %v, want ErrCreatorHasOpen", err)
	}
}

func TestBindDuel(t *testing.T) {
	m, _, cleanup := newTestManager(t)
	defer cleanup()
	ctx := context.Background()

	mk, _ := m.Make(ctx, "shoukan", "chanA", "u1", "Alice")
	if _, err := m.Join(ctx, "chanA", mk.Code, "u2", "Bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := m.BindDuel(ctx, mk.Code, "duel-1"); err != nil {
		t.Fatalf("BindDuel: %v", err)
	}
	meta, err := m.store.LoadMeta(ctx, mk.Code)
	if err != nil || meta == nil || meta.DuelID != "duel-1" {
		t.Fatalf("meta: %+v %v", meta, err)
	}
}
