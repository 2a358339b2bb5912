package scheduler

import "errors"

// Sentinel errors for the scheduler package.
// Check with errors.Is: errors.Is(err, scheduler.ErrNoCurrentCard)
var (
	ErrNoCurrentCard      = errors.New("scheduler: no current card")
	ErrInvalidQuality     = errors.New("scheduler: invalid quality")
	ErrInvalidMode        = errors.New("scheduler: invalid mode")
	ErrInvalidSessionSize = errors.New("scheduler: session size must be positive")
)
