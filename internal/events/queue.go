// internal/events/queue.go
package events

// Entity types
const (
	EntityJob   = "job"
	EntityQueue = "queue"
)

// Event type constants
const (
	EventLogLine       = "job.log"
	EventStatus        = "queue.status"
	EventProgress      = "job.progress"
	EventEpisodeStatus = "episode.status"
	EventJobStarted    = "job.started"
	EventJobFinished   = "job.finished"
	EventQueueFinished = "queue.finished"
	EventQueueStopped  = "queue.stopped"
)

// LogLine carries one line of fetch tool output, delivered as it arrives.
type LogLine struct {
	BaseEvent
	Episode int    `json:"episode"`
	Line    string `json:"line"`
}

// StatusText is a human-readable status message for the current run.
type StatusText struct {
	BaseEvent
	Text string `json:"text"`
}

// ProgressUpdated reports completed episodes out of the job total.
type ProgressUpdated struct {
	BaseEvent
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// EpisodeStatusChanged is emitted on every per-episode transition.
type EpisodeStatusChanged struct {
	BaseEvent
	Episode int    `json:"episode"`
	From    string `json:"from"`
	To      string `json:"to"`
	Detail  string `json:"detail,omitempty"`
}

// JobStarted is emitted when the runner picks up a queue item.
type JobStarted struct {
	BaseEvent
	RunID    string `json:"run_id"`
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Session  string `json:"session"`
	Episodes []int  `json:"episodes"`
}

// JobFinished is emitted after the last episode of a job, whatever the outcome.
type JobFinished struct {
	BaseEvent
	RunID     string `json:"run_id"`
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Success   bool   `json:"success"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Canceled  bool   `json:"canceled,omitempty"`
}

// QueueFinished is emitted once the last queued job has finished.
type QueueFinished struct {
	BaseEvent
	RunID     string `json:"run_id"`
	Jobs      int    `json:"jobs"`
	Succeeded int    `json:"succeeded"`
}

// QueueStopped is emitted when a run ends early because its context was canceled.
type QueueStopped struct {
	BaseEvent
	RunID  string `json:"run_id"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (e *JobStarted) Run() string    { return e.RunID }
func (e *JobFinished) Run() string   { return e.RunID }
func (e *QueueFinished) Run() string { return e.RunID }
func (e *QueueStopped) Run() string  { return e.RunID }
