package domain

import "errors"

// Validation and authorization failures. Their text is shown to clients.
var (
	ErrInvalidUsername   = errors.New("valid username required")
	ErrMissingRoomName   = errors.New("room name required")
	ErrMissingPassword   = errors.New("password required")
	ErrRoomNameTaken     = errors.New("this room name is already taken")
	ErrRoomNotFound      = errors.New("room not found")
	ErrWrongPassword     = errors.New("incorrect room password")
	ErrRoomFull          = errors.New("room is full")
	ErrUsernameTaken     = errors.New("username is already taken in this room")
	ErrAlreadyInRoom     = errors.New("you are already in a room")
	ErrNotInRoom         = errors.New("you are not currently in this room")
	ErrNotAdmin          = errors.New("only the room admin can kick users")
	ErrMissingTarget     = errors.New("you must specify a username to kick")
	ErrTargetNotFound    = errors.New("user not found in this room")
	ErrCannotKickSelf    = errors.New("you cannot kick yourself")
	ErrTargetUnreachable = errors.New("could not directly notify the user, but they have been removed from the room")
)
