package room

import "errors"

var (
	ErrRoomNotFound        = errors.New("room-not-found")
	ErrMissingField        = errors.New("missing-field")
	ErrInsufficientPlayers = errors.New("insufficient-players")
	ErrStoreUnavailable    = errors.New("store-unavailable")
)

// ErrSkipWrite is returned by an update function to end Store.Update
// successfully without writing anything back.
var ErrSkipWrite = errors.New("skip-write")

func isNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound)
}
