package engine

import "fmt"

// RoomNotFoundError means a door or warp led to a room the world doesn't
// have. The session halts when it happens.
type RoomNotFoundError struct {
	Room string
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("room %q does not exist", e.Room)
}
