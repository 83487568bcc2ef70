package queue

import "fmt"

// Progress is completed episodes out of a job's total.
type Progress struct {
	Completed int
	Total     int
}

// Percent returns completion in the range 0-100. An empty job is complete.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	return p.Completed * 100 / p.Total
}

// String renders the progress as "3/12 (25%)".
func (p Progress) String() string {
	return fmt.Sprintf("%d/%d (%d%%)", p.Completed, p.Total, p.Percent())
}

// Aggregator counts completed episodes for one job.
// Total is fixed when the job starts.
type Aggregator struct {
	completed int
	total     int
}

// NewAggregator starts counting toward total.
func NewAggregator(total int) *Aggregator {
	return &Aggregator{total: total}
}

// Complete records one finished episode.
func (a *Aggregator) Complete() Progress {
	if a.completed < a.total {
		a.completed++
	}
	return a.Progress()
}

// Finish forces the progress to total, whatever the outcome.
func (a *Aggregator) Finish() Progress {
	a.completed = a.total
	return a.Progress()
}

// Progress returns the current value.
func (a *Aggregator) Progress() Progress {
	return Progress{Completed: a.completed, Total: a.total}
}
