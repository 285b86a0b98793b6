package usecase

import "errors"

// Error kinds, matched with errors.Is. Synthesis errors are per-segment and
// isolated by the batch driver; assembly errors abort the whole run.
var (
	ErrInputMissing     = errors.New("input missing")
	ErrInvalidAudio     = errors.New("invalid audio")
	ErrEncodeFailed     = errors.New("encode failed")
	ErrMissingClip      = errors.New("missing clip")
	ErrIncompatibleClip = errors.New("incompatible clip")
)
