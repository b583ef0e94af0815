package service

import "errors"

// Game-related errors.
var (
	ErrRoomFull          = errors.New("room is full")
	ErrRoomNotFound      = errors.New("room not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrAlreadyInRoom     = errors.New("player already belongs to a room")
	ErrNilMaze           = errors.New("room needs a maze")
	ErrInvalidRoomConfig = errors.New("invalid room configuration")
)
