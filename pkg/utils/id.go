package utils

import (
	"github.com/google/uuid"
)

const roomIDPrefix = "room_"

// GenRoomID returns "room_" followed by the first 6 characters of a random UUID.
// Collisions are possible and not checked.
func GenRoomID() string {
	return roomIDPrefix + uuid.NewString()[:6]
}

// GenConnID identifies a live connection inside this process.
func GenConnID() string {
	return uuid.NewString()
}
