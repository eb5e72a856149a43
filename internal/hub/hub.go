// Package hub is the broadcast fabric of the gateway. A channel is a named
// target zero or more live connections are enrolled in; sending to a user is
// uniformly "broadcast to the channel named after the user id", so fan-out to
// every device of a user falls out of membership. Membership only reflects
// the live connection set and is rebuilt as clients reconnect.
package hub

import "sync"

// ChannelAdmins is joined by every admitted connection whose user holds an
// administrative role.
const ChannelAdmins = "admins"

type Writer interface {
	Write(payload []byte) error
	Close() error
}

// Connection is one live connection handle enrolled in the hub.
type Connection struct {
	ID     string
	UserID string
	Writer Writer
}

type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Connection]struct{}
	joined   map[*Connection]map[string]struct{}
}

func New() *Hub {
	return &Hub{
		channels: make(map[string]map[*Connection]struct{}),
		joined:   make(map[*Connection]map[string]struct{}),
	}
}

// Join enrolls conn in the named channel. Empty channel names are ignored.
func (h *Hub) Join(channel string, conn *Connection) {
	if channel == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*Connection]struct{})
	}
	h.channels[channel][conn] = struct{}{}

	if h.joined[conn] == nil {
		h.joined[conn] = make(map[string]struct{})
	}
	h.joined[conn][channel] = struct{}{}
}

// Unregister removes conn from every channel it joined.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterLocked(conn)
}

func (h *Hub) unregisterLocked(conn *Connection) {
	for channel := range h.joined[conn] {
		set := h.channels[channel]
		delete(set, conn)
		if len(set) == 0 {
			delete(h.channels, channel)
		}
	}
	delete(h.joined, conn)
}

// Broadcast writes payload to every connection enrolled in the channel and
// returns how many connections it reached. A channel with no live members is
// a no-op, not an error. Connections whose writes fail are closed and
// dropped from every channel.
func (h *Hub) Broadcast(channel string, payload []byte) int {
	if channel == "" {
		return 0
	}

	h.mu.RLock()
	set := h.channels[channel]
	conns := make([]*Connection, 0, len(set))
	for c := range set {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	return h.write(conns, payload)
}

// BroadcastAll writes payload to every live connection regardless of channel
// membership. Used for the administrative list-view events that have no
// single fixed recipient.
func (h *Hub) BroadcastAll(payload []byte) int {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.joined))
	for c := range h.joined {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	return h.write(conns, payload)
}

func (h *Hub) write(conns []*Connection, payload []byte) int {
	delivered := 0
	var failed []*Connection
	for _, c := range conns {
		if err := c.Writer.Write(payload); err != nil {
			failed = append(failed, c)
			continue
		}
		delivered++
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, c := range failed {
			h.unregisterLocked(c)
		}
		h.mu.Unlock()
		for _, c := range failed {
			_ = c.Writer.Close()
		}
	}
	return delivered
}

// Members reports how many connections are enrolled in the channel.
func (h *Hub) Members(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Size reports the total number of live connections.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.joined)
}
