package discord

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket/wsjson"
)

// Egress abstracts message/image sending over HTTP or WebSocket.
type Egress interface {
	SendText(ctx context.Context, channel, message string) error
	SendImage(ctx context.Context, channel, imageBase64 string) error
}

type transportMode string

const (
	transportHTTP transportMode = "http"
	transportWS   transportMode = "ws"
	transportAuto transportMode = "auto"
)

// NewEgress creates an Egress based on mode. When mode is auto, WS is
// preferred when connected; on WS failure, it falls back to HTTP once.
func NewEgress(mode string, dryrun bool, c *Client, ws *Gateway, logger *zap.Logger) Egress {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := transportMode(mode)
	switch m {
	case transportWS:
		return &wsEgress{ws: ws, dryrun: dryrun, logger: logger}
	case transportAuto:
		return &autoEgress{ws: &wsEgress{ws: ws, dryrun: dryrun, logger: logger}, http: &httpEgress{c: c}, logger: logger}
	default:
		return &httpEgress{c: c}
	}
}

// httpEgress delegates to Client.
type httpEgress struct{ c *Client }

func (h *httpEgress) SendText(ctx context.Context, channel, message string) error {
	if h == nil || h.c == nil {
		return errors.New("http egress not available")
	}
	return h.c.SendMessage(ctx, channel, message)
}

func (h *httpEgress) SendImage(ctx context.Context, channel, imageBase64 string) error {
	if h == nil || h.c == nil {
		return errors.New("http egress not available")
	}
	return h.c.SendImage(ctx, channel, imageBase64)
}

// wsEgress writes ReplyRequest frames over the gateway socket.
type wsEgress struct {
	ws     *Gateway
	dryrun bool
	logger *zap.Logger
}

func (w *wsEgress) SendText(ctx context.Context, channel, message string) error {
	if w == nil || w.ws == nil {
		return errors.New("ws egress not available")
	}
	if w.dryrun {
		w.logger.Info("ws_egress_dryrun", zap.String("type", "text"), zap.String("channel", channel))
		return nil
	}
	req := ReplyRequest{Type: "text", Channel: channel, Data: message}
	return w.writeJSON(ctx, &req)
}

func (w *wsEgress) SendImage(ctx context.Context, channel, imageBase64 string) error {
	if w == nil || w.ws == nil {
		return errors.New("ws egress not available")
	}
	if w.dryrun {
		w.logger.Info("ws_egress_dryrun", zap.String("type", "image"), zap.String("channel", channel))
		return nil
	}
	req := ReplyRequest{Type: "image", Channel: channel, Data: imageBase64}
	return w.writeJSON(ctx, &req)
}

func (w *wsEgress) writeJSON(ctx context.Context, v any) error {
	// Quick state/conn check to avoid write on nil
	if w.ws.conn == nil || w.ws.state != WSStateConnected {
		return errors.New("ws not connected")
	}
	dctx := ctx
	if _, ok := ctx.Deadline(); !ok {
		// bounded deadline to prevent indefinite blocking
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	// wsjson.Write is not concurrency-safe across goroutines; call sites send
	// sequentially per channel.
	return wsjson.Write(dctx, w.ws.conn, v)
}

// autoEgress prefers WS if available, with single fallback to HTTP.
type autoEgress struct {
	ws     *wsEgress
	http   *httpEgress
	logger *zap.Logger
}

func (a *autoEgress) SendText(ctx context.Context, channel, message string) error {
	// Try WS first when connected
	if a.ws != nil && a.ws.ws != nil && a.ws.ws.conn != nil && a.ws.ws.state == WSStateConnected {
		if err := a.ws.SendText(ctx, channel, message); err == nil {
			return nil
		}
		a.logger.Warn("egress_fallback", zap.String("type", "text"), zap.String("channel", channel))
	}
	return a.http.SendText(ctx, channel, message)
}

func (a *autoEgress) SendImage(ctx context.Context, channel, imageBase64 string) error {
	if a.ws != nil && a.ws.ws != nil && a.ws.ws.conn != nil && a.ws.ws.state == WSStateConnected {
		if err := a.ws.SendImage(ctx, channel, imageBase64); err == nil {
			return nil
		}
		a.logger.Warn("egress_fallback", zap.String("type", "image"), zap.String("channel", channel))
	}
	return a.http.SendImage(ctx, channel, imageBase64)
}
