package relay

import "sync"

// Conn is a live client connection as seen by the relay.
type Conn interface {
	ID() string
	// Send queues event for delivery without waiting on the network.
	Send(event string, payload any) error
}

// Registry tracks which room each live connection currently belongs to.
// A connection is a member of at most one room; associating it with another
// room moves it. The registry is local to the process holding the sockets.
type Registry struct {
	mu      sync.RWMutex
	conns   map[string]Conn
	roomOf  map[string]string
	members map[string]map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{
		conns:   make(map[string]Conn),
		roomOf:  make(map[string]string),
		members: make(map[string]map[string]Conn),
	}
}

// Add registers a freshly opened connection with no room.
func (reg *Registry) Add(c Conn) {
	reg.mu.Lock()
	reg.conns[c.ID()] = c
	reg.mu.Unlock()
}

// Associate places connID in roomID. It reports false for unknown connections.
func (reg *Registry) Associate(connID, roomID string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	c, ok := reg.conns[connID]
	if !ok {
		return false
	}

	if prev, ok := reg.roomOf[connID]; ok {
		if prev == roomID {
			return true
		}
		reg.leave(connID, prev)
	}

	if reg.members[roomID] == nil {
		reg.members[roomID] = make(map[string]Conn)
	}
	reg.members[roomID][connID] = c
	reg.roomOf[connID] = roomID
	return true
}

func (reg *Registry) RoomOf(connID string) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	roomID, ok := reg.roomOf[connID]
	return roomID, ok
}

// Remove forgets connID and its room membership.
func (reg *Registry) Remove(connID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if roomID, ok := reg.roomOf[connID]; ok {
		reg.leave(connID, roomID)
		delete(reg.roomOf, connID)
	}
	delete(reg.conns, connID)
}

// Members returns a snapshot of the connections in roomID.
func (reg *Registry) Members(roomID string) []Conn {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room := reg.members[roomID]
	out := make([]Conn, 0, len(room))
	for _, c := range room {
		out = append(out, c)
	}
	return out
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.conns)
}

// caller holds reg.mu
func (reg *Registry) leave(connID, roomID string) {
	room := reg.members[roomID]
	delete(room, connID)
	if len(room) == 0 {
		delete(reg.members, roomID)
	}
}
