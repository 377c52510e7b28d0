package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/internal/discord"
)

func main() {
	baseURL := os.Getenv("DISCORD_BRIDGE_BASE_URL")
	wsURL := os.Getenv("DISCORD_BRIDGE_WS_URL")
	token := os.Getenv("DISCORD_BOT_TOKEN")

	if baseURL == "" {
		log.Fatal("DISCORD_BRIDGE_BASE_URL is required")
	}

	headers := func() map[string]string {
		m := map[string]string{}
		if token != "" {
			m["Authorization"] = "Bot " + token
		}
		return m
	}

	client := discord.NewClient(baseURL,
		discord.WithHeaderProvider(headers),
		discord.WithTimeout(8*time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	info, err := client.GetInfo(ctx)
	if err != nil {
		log.Printf("/config error: %v", err)
	} else {
		log.Printf("/config ok: bot=%s (%s) guilds=%d ping=%dms", info.BotName, info.BotID, info.GuildCount, info.GatewayPing)
	}

	if wsURL == "" {
		log.Println("DISCORD_BRIDGE_WS_URL not set; skipping WS check")
		return
	}

	ws := discord.NewGateway(wsURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state discord.WebSocketState) {
		log.Printf("WS state: %s", state)
	})
	ws.OnMessage(func(msg *discord.Message) {
		fmt.Printf("WS msg channel=%s from=%s text=%q\n", msg.Channel, msg.UserID, msg.Content)
	})

	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ccancel()
	if err := ws.Connect(cctx); err != nil {
		log.Printf("WS connect error: %v", err)
		return
	}

	// Observe for a short window
	t := time.NewTimer(10 * time.Second)
	<-t.C

	_ = ws.Close(context.Background())
}
