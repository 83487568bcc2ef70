package queue

import "fmt"

// EpisodeStatus is the lifecycle state of one episode within a job.
type EpisodeStatus string

const (
	EpisodeQueued      EpisodeStatus = "queued"
	EpisodeDownloading EpisodeStatus = "downloading"
	EpisodeCompleted   EpisodeStatus = "completed"
	EpisodeFailed      EpisodeStatus = "failed"
)

// validTransitions defines allowed state transitions.
// Key is the "from" status, value is list of valid "to" statuses.
var validTransitions = map[EpisodeStatus][]EpisodeStatus{
	EpisodeQueued:      {EpisodeDownloading},
	EpisodeDownloading: {EpisodeCompleted, EpisodeFailed, EpisodeQueued}, // queued: canceled before the tool ran
	EpisodeCompleted:   {}, // terminal
	EpisodeFailed:      {}, // terminal, failures are never retried
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s EpisodeStatus) CanTransitionTo(target EpisodeStatus) bool {
	valid, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, v := range valid {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if this status has no valid outgoing transitions.
func (s EpisodeStatus) IsTerminal() bool {
	return s == EpisodeCompleted || s == EpisodeFailed
}

// EpisodeState tracks one episode of a job.
type EpisodeState struct {
	Episode int
	Status  EpisodeStatus
	Detail  string // exit code or error text for failures
}

// Transition moves the state to target, or returns ErrInvalidTransition.
func (e *EpisodeState) Transition(target EpisodeStatus, detail string) error {
	if !e.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: episode %d %s -> %s", ErrInvalidTransition, e.Episode, e.Status, target)
	}
	e.Status = target
	e.Detail = detail
	return nil
}

// JobState is the lifecycle state of a queue entry.
type JobState string

const (
	JobPending  JobState = "pending"
	JobRunning  JobState = "running"
	JobFinished JobState = "finished"
)

// newEpisodeStates returns a queued state for every episode.
func newEpisodeStates(episodes []int) []EpisodeState {
	states := make([]EpisodeState, len(episodes))
	for i, ep := range episodes {
		states[i] = EpisodeState{Episode: ep, Status: EpisodeQueued}
	}
	return states
}
