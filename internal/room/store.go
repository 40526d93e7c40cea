package room

import "context"

// Store persists room records. Implementations must be safe for concurrent
// use and must report connectivity problems wrapped in ErrStoreUnavailable.
type Store interface {
	// Create writes a new record, overwriting any record with the same id.
	Create(ctx context.Context, rec Record) error

	// Get returns ErrRoomNotFound when no record exists for id.
	Get(ctx context.Context, id string) (Record, error)

	// Update applies fn to the current record and writes the result back
	// atomically: no other update to the same room can interleave between
	// the read and the write. fn may be invoked more than once and must not
	// keep side effects from earlier invocations. If fn returns ErrSkipWrite
	// the current record is returned unchanged with a nil error; any other
	// error aborts the update and is returned as is.
	Update(ctx context.Context, id string, fn func(rec *Record) error) (Record, error)
}
