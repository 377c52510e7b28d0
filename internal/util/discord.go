package util

import "strings"

const (
	// DiscordMessageLimit is the hard cap on message content length.
	DiscordMessageLimit = 2000

	codeFence = "```"
)

// Truncate caps text at DiscordMessageLimit runes, appending an ellipsis
// when anything was cut.
func Truncate(text string) string {
	return TruncateRunes(text, DiscordMessageLimit)
}

func TruncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	const ellipsis = "…"
	if limit <= len([]rune(ellipsis)) {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + ellipsis
}

// CodeBlock wraps text in a fenced block, trimming the body so the whole
// message stays within the Discord limit.
func CodeBlock(text string) string {
	body := strings.ReplaceAll(text, codeFence, "`​``")
	budget := DiscordMessageLimit - 2*len(codeFence) - 2
	body = TruncateRunes(body, budget)
	return codeFence + "\n" + body + "\n" + codeFence
}

// Mention formats a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// ParseMention extracts the user id from a mention token. It accepts the
// plain and nickname forms; anything else returns false.
func ParseMention(token string) (string, bool) {
	t := strings.TrimSpace(token)
	if !strings.HasPrefix(t, "<@") || !strings.HasSuffix(t, ">") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(t, "<@"), ">")
	id = strings.TrimPrefix(id, "!")
	if id == "" {
		return "", false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id, true
}
