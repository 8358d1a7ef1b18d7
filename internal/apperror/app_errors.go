package apperror

import "errors"

var (
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownGameMode   = errors.New("unknown game mode")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
