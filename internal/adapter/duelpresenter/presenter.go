// Package duelpresenter bridges the game reporters onto the chat egress:
// announcements go out as text, board snapshots are rendered to PNG and
// sent as base64 images.
package duelpresenter

import (
	"context"
	"encoding/base64"
	"time"

	"go.uber.org/zap"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/discord"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/obslog"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/render"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/util"
	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/pkg/dueldto"
)

const sendTimeout = 10 * time.Second

// ShoukanPresenter delivers one shoukan match's output. Announcements and
// the arena go to the duel channel; each player's hand goes to their own
// channel when one is configured.
type ShoukanPresenter struct {
	egress       discord.Egress
	renderer     render.DuelRenderer
	channel      string
	handChannels map[string]string // player uid -> private channel
	logger       *zap.Logger
}

func NewShoukanPresenter(egress discord.Egress, renderer render.DuelRenderer, channel string, handChannels map[string]string) *ShoukanPresenter {
	if handChannels == nil {
		handChannels = map[string]string{}
	}
	return &ShoukanPresenter{
		egress:       egress,
		renderer:     renderer,
		channel:      channel,
		handChannels: handChannels,
		logger:       obslog.L().Named("presenter"),
	}
}

func (p *ShoukanPresenter) Announce(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := p.egress.SendText(ctx, p.channel, util.Truncate(text)); err != nil {
		p.logger.Warn("presenter_text_failed", zap.String("channel", p.channel), zap.Error(err))
	}
}

func (p *ShoukanPresenter) ShowArena(v dueldto.ArenaView) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	data, err := p.renderer.RenderArenaPNG(ctx, v)
	if err != nil {
		p.logger.Warn("presenter_arena_render_failed", zap.Error(err))
		return
	}
	p.sendImage(ctx, p.channel, data, "arena")
}

func (p *ShoukanPresenter) ShowHand(v dueldto.HandView) {
	channel, ok := p.handChannels[v.Owner]
	if !ok || channel == "" {
		// no private channel; hands are never shown publicly
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	data, err := p.renderer.RenderHandPNG(ctx, v)
	if err != nil {
		p.logger.Warn("presenter_hand_render_failed", zap.String("owner", v.Owner), zap.Error(err))
		return
	}
	p.sendImage(ctx, channel, data, "hand")
}

func (p *ShoukanPresenter) sendImage(ctx context.Context, channel string, pngData []byte, kind string) {
	encoded := base64.StdEncoding.EncodeToString(pngData)
	if err := p.egress.SendImage(ctx, channel, encoded); err != nil {
		p.logger.Warn("presenter_image_failed",
			zap.String("channel", channel),
			zap.String("kind", kind),
			zap.Error(err))
	}
}

// ChessPresenter delivers one chess match's output to a single channel.
type ChessPresenter struct {
	egress   discord.Egress
	renderer render.BoardRenderer
	channel  string
	logger   *zap.Logger
}

func NewChessPresenter(egress discord.Egress, renderer render.BoardRenderer, channel string) *ChessPresenter {
	return &ChessPresenter{
		egress:   egress,
		renderer: renderer,
		channel:  channel,
		logger:   obslog.L().Named("presenter"),
	}
}

func (p *ChessPresenter) Announce(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := p.egress.SendText(ctx, p.channel, util.Truncate(text)); err != nil {
		p.logger.Warn("presenter_text_failed", zap.String("channel", p.channel), zap.Error(err))
	}
}

func (p *ChessPresenter) ShowBoard(fen string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	data, err := p.renderer.RenderBoardPNG(ctx, fen)
	if err != nil {
		p.logger.Warn("presenter_board_render_failed", zap.Error(err))
		if err := p.egress.SendText(ctx, p.channel, util.CodeBlock(fen)); err != nil {
			p.logger.Warn("presenter_text_failed", zap.String("channel", p.channel), zap.Error(err))
		}
		return
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	if err := p.egress.SendImage(ctx, p.channel, encoded); err != nil {
		p.logger.Warn("presenter_image_failed", zap.String("channel", p.channel), zap.Error(err))
	}
}
