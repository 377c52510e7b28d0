package challenge

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidArgs      = errf("invalid arguments")
	ErrSelfChallenge    = errf("cannot challenge yourself")
	ErrAlreadyPending   = errf("target already has a pending challenge")
	ErrNoPendingForUser = errf("no pending challenge for target user")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusDeclined Status = "DECLINED"
)

// Challenge is one @mention duel invitation. Invitations auto-accept: the
// mention itself counts as consent to a friendly duel.
type Challenge struct {
	ID           string
	Kind         string
	Channel      string
	ChallengerID string
	TargetID     string
	Status       Status
	CreatedAt    time.Time
}

// Manager tracks challenges per target in memory. Records live only for the
// process lifetime; a restart forgets all pending invitations.
type Manager struct {
	mu       sync.RWMutex
	byTarget map[string][]*Challenge
	seq      uint64
}

func NewManager() *Manager {
	return &Manager{byTarget: make(map[string][]*Challenge)}
}

func (m *Manager) Create(kind, channel, challengerID, targetID string) (*Challenge, error) {
	if channel == "" || challengerID == "" || targetID == "" {
		return nil, ErrInvalidArgs
	}
	if challengerID == targetID {
		return nil, ErrSelfChallenge
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.byTarget[targetID]
	if latestPendingIndex(list) >= 0 {
		return nil, ErrAlreadyPending
	}
	ch := &Challenge{
		ID:           m.nextID(),
		Kind:         kind,
		Channel:      channel,
		ChallengerID: challengerID,
		TargetID:     targetID,
		Status:       StatusAccepted,
		CreatedAt:    time.Now(),
	}
	m.byTarget[targetID] = append(list, ch)
	return ch, nil
}

func (m *Manager) Decline(targetID string) (*Challenge, error) {
	if targetID == "" {
		return nil, ErrInvalidArgs
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.byTarget[targetID]
	if idx := latestPendingIndex(list); idx >= 0 {
		ch := list[idx]
		ch.Status = StatusDeclined
		return ch, nil
	}
	return nil, ErrNoPendingForUser
}

func latestPendingIndex(list []*Challenge) int {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Status == StatusPending {
			return i
		}
	}
	return -1
}

func (m *Manager) nextID() string {
	n := atomic.AddUint64(&m.seq, 1)
	return fmt.Sprintf("ch-%d-%d", time.Now().UnixNano(), n)
}
