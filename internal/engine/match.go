package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/obslog"
	"go.uber.org/zap"
)

// Result is the terminal reason a match ended with.
type Result string

const (
	ResultSuccess   Result = "SUCCESS"
	ResultForfeit   Result = "FORFEIT"
	ResultTimeout   Result = "TIMEOUT"
	ResultInitError Result = "INITIALIZATION_ERROR"
	ResultAborted   Result = "ABORTED"
)

// State is the match lifecycle. NOT_STARTED → RUNNING happens once on a
// successful Begin; RUNNING → CLOSED happens exactly once via close.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateRunning    State = "RUNNING"
	StateClosed     State = "CLOSED"
)

// Outcome is the explicit termination signal of a match, delivered exactly
// once through Done and the optional terminal callback.
type Outcome struct {
	Result Result
	Turn   int
	Err    error
}

// Inbound is a raw chat message already stripped of any command prefix.
type Inbound struct {
	Channel  string
	UserID   string
	UserName string
	Text     string
}

// Listener scopes message delivery to a set of channels. Subscribe returns
// the unsubscribe func; the match guarantees it runs on every exit path.
type Listener interface {
	Subscribe(channels []string, fn func(Inbound)) (func(), error)
}

// Game is implemented by a concrete game mounted on a Match.
type Game interface {
	// Begin sets up initial game state. A non-nil error force-closes the
	// match with ResultInitError.
	Begin() error
	// Validate gates inbound messages: sender must be a participant and it
	// must be that participant's turn.
	Validate(in Inbound) bool
	// Actions is the registration table matched against normalized input.
	Actions() []Action
	// OnTimeout runs on the match goroutine when the turn timer fires.
	OnTimeout(turn int)
	// AfterAction runs on the match goroutine after a handled action,
	// with the handler's re-render-hand signal.
	AfterAction(in Inbound, rerenderHand bool)
}

var ErrAlreadyStarted = errors.New("match already started")

type timerFire struct{ turn int }

// Match hosts a single match's scheduling, message intake and phase
// bookkeeping, independent of game-specific rules. All game state mutation
// happens on the match goroutine: inbound messages and timer fires funnel
// through one loop, so handlers never race each other.
type Match struct {
	id       string
	game     Game
	actions  []Action
	channels []string

	mu      sync.Mutex
	state   State
	turn    int
	phase   Phase
	initial Phase
	outcome Outcome

	timeout time.Duration
	timer   *time.Timer
	fires   chan timerFire
	inbox   chan Inbound
	done    chan Outcome
	closed  chan struct{}
	once    sync.Once
	onClose func(Outcome)
	logger  *zap.Logger
}

// NewMatch builds a not-yet-started match. initial is the phase every turn
// resets to; timeout is the per-turn deadline (0 disables the timer).
func NewMatch(id string, game Game, channels []string, initial Phase, timeout time.Duration) *Match {
	return &Match{
		id:       id,
		game:     game,
		actions:  game.Actions(),
		channels: channels,
		state:    StateNotStarted,
		turn:     1,
		phase:    initial,
		initial:  initial,
		timeout:  timeout,
		fires:    make(chan timerFire, 1),
		inbox:    make(chan Inbound, 16),
		done:     make(chan Outcome, 1),
		closed:   make(chan struct{}),
		logger:   obslog.L().With(zap.String("match_id", id)),
	}
}

// OnClose installs the terminal callback, invoked once with the outcome.
func (m *Match) OnClose(fn func(Outcome)) { m.onClose = fn }

func (m *Match) ID() string           { return m.id }
func (m *Match) Turn() int            { return m.turn }
func (m *Match) Phase() Phase         { return m.phase }
func (m *Match) Done() <-chan Outcome { return m.done }

func (m *Match) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetPhase is called by game handlers on the match goroutine.
func (m *Match) SetPhase(p Phase) { m.phase = p }

// Start subscribes the scoped listener, runs Begin and launches the match
// loop. The listener is removed on every loop exit path.
func (m *Match) Start(ctx context.Context, bus Listener) error {
	m.mu.Lock()
	if m.state != StateNotStarted {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.mu.Unlock()

	unsubscribe, err := bus.Subscribe(m.channels, m.deliver)
	if err != nil {
		m.Close(ResultInitError, err)
		return err
	}

	if err := m.game.Begin(); err != nil {
		unsubscribe()
		m.logger.Error("match_begin_error", zap.Error(err))
		m.Close(ResultInitError, err)
		return err
	}

	m.mu.Lock()
	m.state = StateRunning
	m.mu.Unlock()
	m.restartTimer()
	m.logger.Info("match_start", zap.Strings("channels", m.channels))

	go m.loop(ctx, unsubscribe)
	return nil
}

func (m *Match) deliver(in Inbound) {
	if m.State() != StateRunning {
		return
	}
	select {
	case m.inbox <- in:
	default:
		// A full inbox means someone is flooding the channel; drop rather
		// than block the gateway dispatch.
		m.logger.Warn("match_inbox_full", zap.String("user_id", in.UserID))
	}
}

func (m *Match) loop(ctx context.Context, unsubscribe func()) {
	defer unsubscribe()
	defer m.stopTimer()
	for {
		select {
		case <-ctx.Done():
			m.Close(ResultAborted, ctx.Err())
			return
		case <-m.closed:
			return
		case f := <-m.fires:
			if f.turn != m.turn || m.State() != StateRunning {
				continue // stale fire from a timer that lost the restart race
			}
			m.logger.Info("match_turn_timeout", zap.Int("turn", m.turn))
			m.game.OnTimeout(m.turn)
		case in := <-m.inbox:
			m.dispatch(in)
		}
		if m.State() == StateClosed {
			return
		}
	}
}

// dispatch runs the first declared action whose phase guard passes and whose
// pattern matches the normalized text. Unmatched input is not an error: chat
// is not exclusively command input.
func (m *Match) dispatch(in Inbound) {
	if !m.game.Validate(in) {
		return
	}
	text := Normalize(in.Text)
	if text == "" {
		return
	}
	for i := range m.actions {
		a := &m.actions[i]
		if !a.phaseAllowed(m.phase) {
			continue
		}
		p, ok := a.match(text)
		if !ok {
			continue
		}
		m.logger.Debug("match_action",
			zap.String("action", a.Name),
			zap.Int("turn", m.turn),
			zap.String("user_id", in.UserID),
		)
		rerender := a.Handle(p)
		if m.State() == StateRunning {
			m.game.AfterAction(in, rerender)
		}
		return
	}
}

// NextTurn advances the turn counter, resets the phase to the initial phase
// and restarts the turn timer. Call only from the match goroutine.
func (m *Match) NextTurn() {
	m.turn++
	m.phase = m.initial
	m.restartTimer()
}

// ResetTimer restarts the turn deadline without advancing the turn.
func (m *Match) ResetTimer() { m.restartTimer() }

func (m *Match) restartTimer() {
	m.stopTimer()
	if m.timeout <= 0 {
		return
	}
	turn := m.turn
	m.timer = time.AfterFunc(m.timeout, func() {
		select {
		case m.fires <- timerFire{turn: turn}:
		default:
		}
	})
}

func (m *Match) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Close completes the match exactly once. Late actions racing a close are
// harmless: the loop drains and the outcome is already sealed.
func (m *Match) Close(res Result, err error) {
	m.once.Do(func() {
		m.mu.Lock()
		m.state = StateClosed
		m.outcome = Outcome{Result: res, Turn: m.turn, Err: err}
		out := m.outcome
		m.channels = nil
		m.mu.Unlock()

		m.logger.Info("match_close", zap.String("result", string(res)), zap.Int("turn", out.Turn), zap.Error(err))
		m.done <- out
		close(m.closed)
		if m.onClose != nil {
			m.onClose(out)
		}
	})
}

// Outcome returns the sealed outcome after close.
func (m *Match) Outcome() Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome
}
