package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// every embedded key paired with the data shape its call sites pass
var renderCases = map[string]map[string]any{
	"shoukan.start":                 {"Player1": "Alice", "Player2": "Bob", "Current": "Bob"},
	"shoukan.turn":                  {"Turn": 2, "Player": "Alice", "HP": 5000, "MP": 5},
	"shoukan.phase_combat":          {"Player": "Bob"},
	"shoukan.win":                   {"Winner": "Alice"},
	"shoukan.forfeit":               {"Player": "Bob", "Winner": "Alice"},
	"shoukan.timeout":               {"Turn": 4, "Winner": "Alice"},
	"shoukan.error.hand_index":      {"Index": 9},
	"shoukan.error.unavailable":     nil,
	"shoukan.error.hp":              {"Cost": 500},
	"shoukan.error.mp":              {"Cost": 6},
	"shoukan.error.occupied":        {"Lane": 3},
	"shoukan.error.empty_slot":      {"Lane": 1},
	"shoukan.error.wrong_type":      nil,
	"shoukan.error.equip_limit":     nil,
	"shoukan.error.equip_target":    nil,
	"shoukan.error.promote_blocked": nil,
	"shoukan.error.cannot_attack":   nil,
	"shoukan.error.screened":        nil,
	"shoukan.error.no_draws":        nil,
	"shoukan.error.empty_deck":      nil,
	"chess.start":                   {"White": "Bob", "Black": "Alice"},
	"chess.finish_mate":             {"Winner": "Bob"},
	"chess.finish_draw":             nil,
	"chess.finish_resign":           {"Player": "Alice", "Winner": "Bob"},
	"chess.error_move":              nil,
	"lobby.created":                 {"Code": "SK-ABC123", "Prefix": "s!"},
	"lobby.joined":                  {"Code": "SK-ABC123"},
	"lobby.busy":                    nil,
	"lobby.duplicate":               nil,
	"lobby.gone":                    nil,
	"lobby.full":                    nil,
	"common.unknown_command":        {"Prefix": "s!"},
	"common.not_identified":         nil,
}

func TestEmbeddedKeysRenderWithCallSiteData(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	for key, data := range renderCases {
		out, err := c.Render(key, data)
		if err != nil {
			t.Errorf("render %s: %v", key, err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("render %s: empty output", key)
		}
		if strings.Contains(out, "{{") {
			t.Errorf("render %s: unexpanded template: %q", key, out)
		}
	}
}

func TestRenderMissingDataFails(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if _, err := c.Render("shoukan.win", nil); err == nil {
		t.Fatal("expected missingkey error with nil data")
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "shoukan:\n  win: \"GG {{.Winner}}\"\n"
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("load with overrides: %v", err)
	}
	out, err := c.Render("shoukan.win", map[string]any{"Winner": "Alice"})
	if err != nil {
		t.Fatalf("render override: %v", err)
	}
	if out != "GG Alice" {
		t.Fatalf("override not applied: %q", out)
	}

	// untouched keys keep the embedded text
	if _, err := c.Render("shoukan.start", renderCases["shoukan.start"]); err != nil {
		t.Fatalf("embedded key lost after override: %v", err)
	}
}

func TestDuplicateOverrideKeyRejected(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("shoukan:\n  win: \"x\"\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected duplicate key error across override files")
	}
}
