package apperror

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrCorruptedSession  = errors.New("session state is corrupted")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrInvalidPly        = errors.New("invalid ply")
	ErrUnknownStoreType  = errors.New("unknown session store type")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrUnsupportedAction = errors.New("unsupported action")
)
