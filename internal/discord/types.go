package discord

import "context"

// Message is one chat message delivered by the gateway bridge.
type Message struct {
	Channel  string `json:"channel"`
	Guild    string `json:"guild,omitempty"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
	Content  string `json:"content"`
	Bot      bool   `json:"bot,omitempty"`
}

// ReplyRequest is the bridge payload for outbound text and images.
type ReplyRequest struct {
	Type    string `json:"type"` // "text" | "image"
	Channel string `json:"channel"`
	Data    string `json:"data"` // text, or base64 PNG for images
}

// BridgeInfo is returned by the bridge /config endpoint.
type BridgeInfo struct {
	BotID       string `json:"bot_id"`
	BotName     string `json:"bot_name"`
	GuildCount  int    `json:"guild_count"`
	GatewayPing int    `json:"gateway_ping_ms"`
}

// WebSocketState tracks the gateway connection lifecycle.
type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateReconnecting WebSocketState = "reconnecting"
	WSStateFailed       WebSocketState = "failed"
)

type MessageCallback func(message *Message)

type StateCallback func(state WebSocketState)

type WSClient interface {
	Connect(ctx context.Context) error
	OnMessage(cb MessageCallback) int
	RemoveMessageCallback(id int)
	OnStateChange(cb StateCallback) int
	RemoveStateCallback(id int)
	Close(ctx context.Context) error
}
