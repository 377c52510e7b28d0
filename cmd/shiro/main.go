package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/adapter/duelpresenter"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/challenge"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/chessmatch"
	appcfg "github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/config"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/discord"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/duel"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/engine"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/lobby"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/msgcat"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/obslog"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/render"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/shoukan"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/util"
)

type app struct {
	cfg        *appcfg.AppConfig
	catalog    *msgcat.Catalog
	egress     discord.Egress
	router     *engine.Router
	duels      *duel.Manager
	repo       duel.Repository
	lobbies    *lobby.Manager
	challenges *challenge.Manager
	renderer   render.DuelRenderer
	board      render.BoardRenderer
	logger     *zap.Logger

	rootCtx context.Context
}

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L().Named("shiro")

	catalog, err := msgcat.New(cfg.MessageOverrideDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.BotToken != "" {
			h["Authorization"] = "Bot " + cfg.BotToken
		}
		return h
	}

	client := discord.NewClient(cfg.BridgeBaseURL, discord.WithHeaderProvider(headers))

	gw := discord.NewGateway(cfg.BridgeWSURL, 5, time.Second)
	gw.SetHeaderProvider(headers)
	gw.OnStateChange(func(state discord.WebSocketState) {
		logger.Info("gateway_state", zap.String("state", string(state)))
	})

	egress := discord.NewEgress("auto", false, client, gw, logger)

	duelMgr, err := duel.NewManager(cfg.RedisURL)
	if err != nil {
		log.Fatalf("duel manager init error: %v", err)
	}
	var repo duel.Repository
	if cfg.DatabaseURL != "" {
		pq, err := duel.NewPQRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("duel repo init error: %v", err)
		}
		repo = pq
	} else {
		logger.Warn("duel_repo_memory_fallback")
		repo = duel.NewMemRepository()
	}
	duelMgr.AttachRepository(repo)

	rootCtx, rootCancel := context.WithCancel(context.Background())

	a := &app{
		cfg:        cfg,
		catalog:    catalog,
		egress:     egress,
		router:     engine.NewRouter(),
		duels:      duelMgr,
		repo:       repo,
		lobbies:    lobby.NewManager(duelMgr.Redis(), duelMgr),
		challenges: challenge.NewManager(),
		renderer:   render.NewSVGDuelRenderer(),
		board:      render.NewBoardRenderer(),
		logger:     logger,
		rootCtx:    rootCtx,
	}

	gw.OnMessage(func(msg *discord.Message) {
		if msg == nil || msg.Bot || strings.TrimSpace(msg.Content) == "" {
			return
		}
		if len(cfg.AllowedChannels) > 0 && !channelAllowed(cfg.AllowedChannels, msg.Channel) {
			return
		}
		in := engine.Inbound{
			Channel:  msg.Channel,
			UserID:   msg.UserID,
			UserName: msg.UserName,
			Text:     msg.Content,
		}
		// in-game actions are plain messages; running matches pick their own
		a.router.Dispatch(in)

		if strings.HasPrefix(strings.TrimSpace(msg.Content), cfg.BotPrefix) {
			// keep the gateway read loop free
			go a.handleCommand(in)
		}
	})

	ictx, icancel := context.WithTimeout(rootCtx, 5*time.Second)
	if info, err := client.GetInfo(ictx); err != nil {
		logger.Warn("bridge_info_unavailable", zap.Error(err))
	} else {
		logger.Info("bridge_info",
			zap.String("bot", info.BotName),
			zap.Int("guilds", info.GuildCount),
			zap.Int("ping_ms", info.GatewayPing),
		)
	}
	icancel()

	cctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	if err := gw.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("gateway connect error: %v", err)
	}
	cancel()
	logger.Info("shiro_up", zap.String("prefix", cfg.BotPrefix))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shiro_shutdown")
	rootCancel()
	duelMgr.AbortAll()
	_ = gw.Close(context.Background())
	_ = repo.Close()
	_ = duelMgr.Close()
}

func channelAllowed(allowed []string, channel string) bool {
	for _, c := range allowed {
		if c == channel {
			return true
		}
	}
	return false
}

func (a *app) handleCommand(in engine.Inbound) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(in.Text), a.cfg.BotPrefix))
	if raw == "" {
		a.say(in.Channel, a.helpText())
		return
	}
	parts := strings.Fields(raw)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "ajuda":
		a.say(in.Channel, a.helpText())
	case "shoukan":
		a.handleChallenge(in, duel.KindShoukan, args)
	case "chess", "xadrez":
		a.handleChallenge(in, duel.KindChess, args)
	case "lobby", "sala":
		a.handleLobby(in, args)
	case "profile", "perfil":
		a.handleProfile(in, args)
	default:
		a.say(in.Channel, a.text("common.unknown_command", map[string]any{"Prefix": a.cfg.BotPrefix}))
	}
}

func (a *app) handleChallenge(in engine.Inbound, kind duel.Kind, args []string) {
	if in.UserID == "" {
		a.say(in.Channel, a.text("common.not_identified", nil))
		return
	}
	if len(args) < 1 {
		a.say(in.Channel, "Uso: "+a.cfg.BotPrefix+string(kind)+" @oponente")
		return
	}
	target, ok := util.ParseMention(args[0])
	if !ok || target == in.UserID {
		a.say(in.Channel, a.text("common.not_identified", nil))
		return
	}

	ch, err := a.challenges.Create(string(kind), in.Channel, in.UserID, target)
	if err != nil {
		a.say(in.Channel, "Desafio recusado: "+err.Error())
		return
	}
	a.logger.Info("challenge_accepted",
		zap.String("id", ch.ID),
		zap.String("kind", string(kind)),
		zap.String("challenger", in.UserID),
		zap.String("target", target),
	)

	a.startDuel(in.Channel, kind,
		participant{ID: in.UserID, Name: displayName(in.UserName, in.UserID)},
		participant{ID: target, Name: util.Mention(target)},
	)
}

func (a *app) handleLobby(in engine.Inbound, args []string) {
	if len(args) < 1 {
		a.say(in.Channel, "Uso: "+a.cfg.BotPrefix+"lobby make [shoukan|chess] | join <código> | list")
		return
	}
	ctx, cancel := context.WithTimeout(a.rootCtx, 10*time.Second)
	defer cancel()

	sub := strings.ToLower(args[0])
	name := displayName(in.UserName, in.UserID)

	switch sub {
	case "make", "criar":
		kind := string(duel.KindShoukan)
		if len(args) >= 2 && strings.EqualFold(args[1], string(duel.KindChess)) {
			kind = string(duel.KindChess)
		}
		res, err := a.lobbies.Make(ctx, kind, in.Channel, in.UserID, name)
		switch {
		case errors.Is(err, lobby.ErrPlayerBusy):
			a.say(in.Channel, a.text("lobby.busy", nil))
		case errors.Is(err, lobby.ErrCreatorHasOpen):
			a.say(in.Channel, a.text("lobby.duplicate", nil))
		case err != nil:
			a.say(in.Channel, "Erro ao criar sala: "+err.Error())
		default:
			a.say(in.Channel, a.text("lobby.created", map[string]any{
				"Code":   res.Code,
				"Prefix": a.cfg.BotPrefix,
			}))
		}
	case "join", "entrar":
		if len(args) < 2 {
			a.say(in.Channel, "Uso: "+a.cfg.BotPrefix+"lobby join <código>")
			return
		}
		res, err := a.lobbies.Join(ctx, in.Channel, args[1], in.UserID, name)
		switch {
		case errors.Is(err, lobby.ErrLobbyGone):
			a.say(in.Channel, a.text("lobby.gone", nil))
		case errors.Is(err, lobby.ErrFull), errors.Is(err, lobby.ErrLobbyStarted):
			a.say(in.Channel, a.text("lobby.full", nil))
		case errors.Is(err, lobby.ErrPlayerBusy):
			a.say(in.Channel, a.text("lobby.busy", nil))
		case err != nil:
			a.say(in.Channel, "Erro ao entrar na sala: "+err.Error())
		case res.Started:
			meta := res.Meta
			d := a.startDuel(meta.Channel, duel.Kind(meta.Kind),
				participant{ID: meta.CreatorID, Name: meta.CreatorName},
				participant{ID: meta.JoinerID, Name: meta.JoinerName},
			)
			if d != nil {
				if err := a.lobbies.BindDuel(ctx, meta.Code, d.ID); err != nil {
					a.logger.Warn("lobby_bind_duel_failed", zap.String("code", meta.Code), zap.Error(err))
				}
			}
		default:
			a.say(in.Channel, a.text("lobby.joined", map[string]any{"Code": strings.ToUpper(args[1])}))
		}
	case "list", "listar":
		metas, err := a.lobbies.ListOpen(ctx)
		if err != nil {
			a.say(in.Channel, "Erro ao listar salas: "+err.Error())
			return
		}
		if len(metas) == 0 {
			a.say(in.Channel, "Nenhuma sala aberta.")
			return
		}
		lines := make([]string, 0, len(metas)+1)
		lines = append(lines, "Salas abertas:")
		for _, m := range metas {
			lines = append(lines, fmt.Sprintf("• %s — %s (%s)", m.Code, m.CreatorName, m.Kind))
		}
		a.say(in.Channel, strings.Join(lines, "\n"))
	default:
		a.say(in.Channel, "Uso: "+a.cfg.BotPrefix+"lobby make [shoukan|chess] | join <código> | list")
	}
}

func (a *app) handleProfile(in engine.Inbound, args []string) {
	userID := in.UserID
	if len(args) >= 1 {
		if id, ok := util.ParseMention(args[0]); ok {
			userID = id
		}
	}
	ctx, cancel := context.WithTimeout(a.rootCtx, 5*time.Second)
	defer cancel()

	p, err := a.repo.Profile(ctx, userID)
	if err != nil || p == nil {
		a.say(in.Channel, "Nenhum duelo registrado para "+util.Mention(userID)+".")
		return
	}
	a.say(in.Channel, fmt.Sprintf("📜 Perfil de %s — %dV/%dD/%dE, sequência %d",
		util.Mention(p.UserID), p.Wins, p.Losses, p.Draws, p.Streak))
}

type participant struct {
	ID   string
	Name string
}

// startDuel creates the duel record, mounts the right game on a match and
// launches it on the router. Returns nil after reporting any failure.
func (a *app) startDuel(channel string, kind duel.Kind, p1, p2 participant) *duel.Duel {
	if a.duels.LiveCount() >= a.cfg.MaxConcurrentDuels {
		a.say(channel, "Limite de duelos simultâneos atingido. Tente mais tarde.")
		return nil
	}

	ctx, cancel := context.WithTimeout(a.rootCtx, 10*time.Second)
	defer cancel()

	d, err := a.duels.Create(ctx, kind, channel, p1.ID, p1.Name, p2.ID, p2.Name)
	if err != nil {
		if errors.Is(err, duel.ErrPlayerBusy) {
			a.say(channel, a.text("lobby.busy", nil))
		} else {
			a.say(channel, "Erro ao criar duelo: "+err.Error())
		}
		return nil
	}

	var (
		m    *engine.Match
		bind func(*engine.Match)
	)
	winner := func() string { return "" }

	switch kind {
	case duel.KindChess:
		presenter := duelpresenter.NewChessPresenter(a.egress, a.board, channel)
		game := chessmatch.New(
			chessmatch.Player{UID: p1.ID, Name: p1.Name},
			chessmatch.Player{UID: p2.ID, Name: p2.Name},
			presenter, a.catalog,
		)
		m = engine.NewMatch(d.ID, game, []string{channel}, chessmatch.PhaseMove, a.cfg.TurnTimeout)
		bind = game.Bind
		winner = game.Winner
	default:
		// the bridge resolves dm:<user> to that user's direct channel
		handChannels := map[string]string{
			p1.ID: "dm:" + p1.ID,
			p2.ID: "dm:" + p2.ID,
		}
		presenter := duelpresenter.NewShoukanPresenter(a.egress, a.renderer, channel, handChannels)
		game := shoukan.New(
			shoukan.Player{UID: p1.ID, Name: p1.Name},
			shoukan.Player{UID: p2.ID, Name: p2.Name},
			shoukan.Options{
				BaseHP:   a.cfg.BaseHP,
				BaseMana: a.cfg.BaseManaGain,
				HandSize: a.cfg.HandSize,
			},
			presenter, a.catalog,
		)
		m = engine.NewMatch(d.ID, game, []string{channel}, shoukan.PhasePlan, a.cfg.TurnTimeout)
		bind = game.Bind
		winner = game.Winner
	}

	bind(m)
	m.OnClose(func(out engine.Outcome) {
		fctx, fcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer fcancel()
		if _, err := a.duels.Finish(fctx, d.ID, winner(), out); err != nil {
			a.logger.Error("duel_finish_failed", zap.String("duel_id", d.ID), zap.Error(err))
		}
	})

	a.duels.Register(d.ID, m)
	if err := m.Start(a.rootCtx, a.router); err != nil {
		a.say(channel, "Erro ao iniciar o duelo: "+err.Error())
		return nil
	}
	return d
}

func (a *app) say(channel, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.egress.SendText(ctx, channel, util.Truncate(text)); err != nil {
		a.logger.Warn("say_failed", zap.String("channel", channel), zap.Error(err))
	}
}

func (a *app) text(key string, data map[string]any) string {
	out, err := a.catalog.Render(key, data)
	if err != nil {
		a.logger.Warn("msgcat_render_failed", zap.String("key", key), zap.Error(err))
		return key
	}
	return out
}

func (a *app) helpText() string {
	p := a.cfg.BotPrefix
	return strings.Join([]string{
		"🎴 Shiro — duelos de Shoukan e xadrez",
		"",
		"• " + p + "shoukan @oponente — desafiar para um duelo Shoukan",
		"• " + p + "chess @oponente — desafiar para uma partida de xadrez",
		"• " + p + "lobby make [shoukan|chess] — abrir uma sala pública",
		"• " + p + "lobby join <código> / " + p + "lobby list",
		"• " + p + "profile [@usuário] — vitórias, derrotas e sequência",
		"",
		"No duelo: <mão>,<a|d|b>,<coluna>[,nc] · <mão>,e,<coluna> · <coluna>,f|p|s",
		"draw · atk · <coluna>[,alvo] · end · ff",
	}, "\n")
}

func displayName(name, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return util.Mention(id)
}
