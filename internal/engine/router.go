package engine

import (
	"strings"
	"sync"
)

// Router is the in-process message bus between the chat gateway and running
// matches. The gateway pushes every inbound message through Dispatch; each
// match subscribes to the channels it watches and unsubscribes on close.
type Router struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]func(Inbound) // channel → sub id → fn
}

func NewRouter() *Router {
	return &Router{subs: make(map[string]map[int]func(Inbound))}
}

// Subscribe implements Listener.
func (r *Router) Subscribe(channels []string, fn func(Inbound)) (func(), error) {
	r.mu.Lock()
	r.next++
	id := r.next
	var bound []string
	for _, ch := range channels {
		ch = strings.TrimSpace(ch)
		if ch == "" {
			continue
		}
		if r.subs[ch] == nil {
			r.subs[ch] = make(map[int]func(Inbound))
		}
		r.subs[ch][id] = fn
		bound = append(bound, ch)
	}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		for _, ch := range bound {
			delete(r.subs[ch], id)
			if len(r.subs[ch]) == 0 {
				delete(r.subs, ch)
			}
		}
		r.mu.Unlock()
	}, nil
}

// Dispatch fans an inbound message out to every subscriber of its channel.
func (r *Router) Dispatch(in Inbound) {
	r.mu.RLock()
	fns := make([]func(Inbound), 0, len(r.subs[in.Channel]))
	for _, fn := range r.subs[in.Channel] {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(in)
	}
}

// Watched reports whether any match is listening on the channel.
func (r *Router) Watched(channel string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[channel]) > 0
}
