// Package presence tracks which users currently hold at least one live
// connection handle. The registry is process-local and deliberately not
// persisted: after a restart every user is offline until their clients
// reconnect. It is mutated only from the gateway's connect and disconnect
// paths.
package presence

import "sync"

type Registry struct {
	mu      sync.RWMutex
	handles map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]map[string]struct{})}
}

// MarkOnline records that handleID belongs to userID and reports whether it
// is the user's first live handle, i.e. whether a "user online" event is due.
func (r *Registry) MarkOnline(userID, handleID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.handles[userID]
	if set == nil {
		set = make(map[string]struct{})
		r.handles[userID] = set
	}
	first := len(set) == 0
	set[handleID] = struct{}{}
	return first
}

// MarkOffline removes the handle and reports whether it was the user's last
// one, i.e. whether a "user offline" event is due. Unknown handles are
// ignored.
func (r *Registry) MarkOffline(userID, handleID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.handles[userID]
	if set == nil {
		return false
	}
	if _, ok := set[handleID]; !ok {
		return false
	}
	delete(set, handleID)
	if len(set) == 0 {
		delete(r.handles, userID)
		return true
	}
	return false
}

// Online reports whether the user has at least one live handle.
func (r *Registry) Online(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles[userID]) > 0
}

// OnlineUsers returns the ids of all currently online users.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}
	return ids
}

// OnlineCount reports how many users are online.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}
