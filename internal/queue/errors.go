package queue

import "errors"

// Sentinel errors for the queue package.
var (
	// ErrNoSession is returned when a request has no session identifier.
	ErrNoSession = errors.New("session identifier required")

	// ErrNoEpisodes is returned when an item would download nothing.
	ErrNoEpisodes = errors.New("item has no episodes")

	// ErrEmptyQueue is returned by Start when there is nothing queued.
	ErrEmptyQueue = errors.New("queue is empty")

	// ErrAlreadyRunning is returned by Start while a run is in progress.
	ErrAlreadyRunning = errors.New("queue already running")

	// ErrQueueBusy is returned by Clear while a run is in progress.
	ErrQueueBusy = errors.New("queue is running")

	// ErrLockedIndex is returned when removing an item the run has already reached.
	ErrLockedIndex = errors.New("item is locked by the running queue")

	// ErrIndexOutOfRange is returned for an index that names no item.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidTransition is returned for an episode status change the table does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)
