package engine

import (
	"regexp"
	"strings"
)

// Phase is a game-defined sub-state within a turn. Games layer their own
// phase values (e.g. PLAN/COMBAT) over the running match.
type Phase string

// Params carries the named capture groups of a matched action pattern.
type Params map[string]string

// Int returns the named group parsed as a non-negative integer, -1 when the
// group is absent or malformed.
func (p Params) Int(key string) int {
	v, ok := p[key]
	if !ok || v == "" {
		return -1
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Has reports whether the named group captured anything.
func (p Params) Has(key string) bool { return strings.TrimSpace(p[key]) != "" }

// Handler executes a matched action. The return value signals whether the
// acting player's hand changed and should be re-rendered.
type Handler func(p Params) bool

// Action binds a command grammar to a handler with an optional phase guard.
// Dispatch walks actions in declaration order and runs the first one whose
// phase guard passes and whose pattern matches the whole normalized input.
type Action struct {
	Name    string
	Pattern *regexp.Regexp
	Phases  []Phase
	Handle  Handler
}

// MustAction compiles pattern anchored to the full input. Named groups use
// Go syntax ((?P<name>...)). Panics on an invalid pattern, which is a
// programming error in the game's action table.
func MustAction(name, pattern string, handle Handler, phases ...Phase) Action {
	return Action{
		Name:    name,
		Pattern: regexp.MustCompile("^(?:" + pattern + ")$"),
		Phases:  phases,
		Handle:  handle,
	}
}

func (a *Action) phaseAllowed(cur Phase) bool {
	if len(a.Phases) == 0 {
		return true
	}
	for _, ph := range a.Phases {
		if ph == cur {
			return true
		}
	}
	return false
}

func (a *Action) match(text string) (Params, bool) {
	m := a.Pattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	p := make(Params)
	for i, name := range a.Pattern.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		p[name] = strings.TrimPrefix(m[i], ",")
	}
	return p, true
}

// Normalize lowercases the raw chat text and strips every whitespace rune so
// command grammars only ever see compact comma-separated tokens.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch r {
		case ' ', '\t', '\n', '\r', '​':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
