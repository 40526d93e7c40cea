package room

// Status is the lifecycle stage of a room.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
)

// Record is the authoritative state of one room as held by a Store.
//
// Word is non-empty only while Status is StatusInProgress. CurrentDrawer,
// once set, always names a member of Players.
type Record struct {
	ID            string   `json:"roomId"`
	Players       []string `json:"players"`
	CurrentDrawer string   `json:"currentDrawer"`
	Word          string   `json:"-"`
	Status        Status   `json:"gameStatus"`
}

func newRecord(id string) Record {
	return Record{
		ID:      id,
		Players: []string{},
		Status:  StatusWaiting,
	}
}

// Clone returns a copy that shares no memory with r.
func (r Record) Clone() Record {
	players := make([]string, len(r.Players))
	copy(players, r.Players)
	r.Players = players
	return r
}

func (r Record) hasPlayer(name string) bool {
	for _, p := range r.Players {
		if p == name {
			return true
		}
	}
	return false
}
