package chessmatch

import (
	"strings"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/engine"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/msgcat"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/obslog"
	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"
)

const PhaseMove engine.Phase = "MOVE"

// Reporter delivers chess output: announcements plus the board position for
// rendering.
type Reporter interface {
	Announce(text string)
	ShowBoard(fen string)
}

// Player identifies one participant. Index 1 plays white and moves on turn 1.
type Player struct {
	UID  string
	Name string
}

// Chess is a PvP chess game mounted on a match. Moves are accepted in UCI
// form only; the normalized input is lowercased, which destroys algebraic
// notation.
type Chess struct {
	match    *engine.Match
	players  [2]Player
	game     *nchess.Game
	reporter Reporter
	catalog  *msgcat.Catalog
	logger   *zap.Logger

	winnerUID string
}

// New builds the game. black moves on even turns, white on odd.
func New(black, white Player, reporter Reporter, catalog *msgcat.Catalog) *Chess {
	return &Chess{
		players:  [2]Player{black, white},
		game:     nchess.NewGame(),
		reporter: reporter,
		catalog:  catalog,
		logger:   obslog.L().With(zap.String("game", "chess")),
	}
}

func (c *Chess) Bind(m *engine.Match) { c.match = m }

func (c *Chess) Winner() string { return c.winnerUID }

func (c *Chess) current() Player  { return c.players[c.match.Turn()%2] }
func (c *Chess) opponent() Player { return c.players[(c.match.Turn()+1)%2] }

func (c *Chess) Begin() error {
	c.reporter.Announce(c.text("chess.start", map[string]any{
		"White": c.players[1].Name, "Black": c.players[0].Name,
	}))
	c.reporter.ShowBoard(c.game.FEN())
	return nil
}

func (c *Chess) Validate(in engine.Inbound) bool {
	return in.UserID == c.current().UID
}

func (c *Chess) Actions() []engine.Action {
	return []engine.Action{
		engine.MustAction("move", `(?P<move>[a-h][1-8][a-h][1-8][qrbn]?)`, c.actMove, PhaseMove),
		engine.MustAction("resign", `ff`, c.actResign),
	}
}

func (c *Chess) OnTimeout(turn int) {
	winner := c.opponent()
	c.winnerUID = winner.UID
	c.reporter.Announce(c.text("chess.finish_resign", map[string]any{
		"Player": c.current().Name, "Winner": winner.Name,
	}))
	c.match.Close(engine.ResultTimeout, nil)
}

func (c *Chess) AfterAction(engine.Inbound, bool) {}

func (c *Chess) actMove(p engine.Params) bool {
	uci := strings.ToLower(p["move"])
	pos := c.game.Position()
	mv, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		c.reporter.Announce(c.text("chess.error_move", nil))
		return false
	}
	if err := c.game.Move(mv, nil); err != nil {
		c.reporter.Announce(c.text("chess.error_move", nil))
		return false
	}
	c.logger.Info("chess_move",
		zap.String("uci", uci),
		zap.Int("turn", c.match.Turn()),
	)
	c.reporter.ShowBoard(c.game.FEN())

	switch c.game.Outcome() {
	case nchess.WhiteWon:
		c.finish(c.players[1])
	case nchess.BlackWon:
		c.finish(c.players[0])
	case nchess.Draw:
		c.reporter.Announce(c.text("chess.finish_draw", nil))
		c.match.Close(engine.ResultSuccess, nil)
	default:
		c.match.NextTurn()
	}
	return false
}

func (c *Chess) actResign(engine.Params) bool {
	winner := c.opponent()
	c.winnerUID = winner.UID
	c.reporter.Announce(c.text("chess.finish_resign", map[string]any{
		"Player": c.current().Name, "Winner": winner.Name,
	}))
	c.match.Close(engine.ResultForfeit, nil)
	return false
}

func (c *Chess) finish(winner Player) {
	c.winnerUID = winner.UID
	c.reporter.Announce(c.text("chess.finish_mate", map[string]any{"Winner": winner.Name}))
	c.match.Close(engine.ResultSuccess, nil)
}

func (c *Chess) text(key string, data map[string]any) string {
	out, err := c.catalog.Render(key, data)
	if err != nil {
		c.logger.Warn("msgcat_render_error", zap.String("key", key), zap.Error(err))
		return key
	}
	return out
}
