package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/paheq/internal/events"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished jobs",
	Long: `Lists finished jobs recorded in the history database, newest first.
With --events the raw event log is shown instead.`,
	Example: `  paheq history --since 24h --failed
  paheq history --last
  paheq history --events 50`,
	Args: cobra.NoArgs,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Duration("since", 7*24*time.Hour, "How far back to look")
	historyCmd.Flags().Bool("failed", false, "Only jobs that had errors")
	historyCmd.Flags().Int("events", 0, "Show the N most recent events instead")
	historyCmd.Flags().String("run", "", "Only jobs from this run ID")
	historyCmd.Flags().Bool("last", false, "Only jobs from the most recent run")
}

var errNoHistory = errors.New("history is disabled")

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	since, _ := cmd.Flags().GetDuration("since")
	failedOnly, _ := cmd.Flags().GetBool("failed")
	recent, _ := cmd.Flags().GetInt("events")
	runID, _ := cmd.Flags().GetString("run")
	last, _ := cmd.Flags().GetBool("last")

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	if s.History == nil {
		return errNoHistory
	}

	if recent > 0 {
		raw, err := s.History.Find(events.Filter{RunID: runID, Limit: recent, Newest: true})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(raw)
			return nil
		}
		printRawEvents(os.Stdout, raw, time.Now())
		return nil
	}

	filter := events.Filter{Types: []string{events.EventJobFinished}, Newest: true}
	switch {
	case last:
		if filter.RunID, err = s.History.LastRun(); err != nil {
			return err
		}
		if filter.RunID == "" {
			fmt.Println("No runs recorded")
			return nil
		}
	case runID != "":
		filter.RunID = runID
	default:
		filter.Since = time.Now().Add(-since)
	}

	raw, err := s.History.Find(filter)
	if err != nil {
		return err
	}
	jobs := finishedJobs(raw, failedOnly)

	if jsonOutput {
		printJSON(jobs)
		return nil
	}
	printHistory(os.Stdout, jobs, time.Now())
	return nil
}

// finishedJobs decodes job.finished records, keeping their order.
func finishedJobs(raw []events.RawEvent, failedOnly bool) []*events.JobFinished {
	decoded, _ := events.DefaultRegistry().DecodeAll(raw)
	jobs := make([]*events.JobFinished, 0, len(decoded))
	for _, e := range decoded {
		job, ok := e.(*events.JobFinished)
		if !ok || (failedOnly && job.Success) {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func printHistory(w io.Writer, jobs []*events.JobFinished, now time.Time) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No finished jobs")
		return
	}

	fmt.Fprintf(w, "  %-16s %-8s %-9s %s\n", "WHEN", "RESULT", "EPISODES", "TITLE")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 70))
	for _, j := range jobs {
		fmt.Fprintf(w, "  %-16s %-8s %-9s %s\n",
			humanize.RelTime(j.OccurredAt(), now, "ago", "from now"),
			jobResult(j),
			fmt.Sprintf("%d/%d", j.Completed, j.Completed+j.Failed),
			j.Title)
	}
}

func jobResult(j *events.JobFinished) string {
	switch {
	case j.Canceled:
		return "stopped"
	case j.Success:
		return "done"
	default:
		return "errors"
	}
}

func printRawEvents(w io.Writer, raw []events.RawEvent, now time.Time) {
	for _, e := range raw {
		fmt.Fprintf(w, "  %-16s %-16s %-8s %s#%d %s\n",
			humanize.RelTime(e.OccurredAt, now, "ago", "from now"),
			e.EventType, shortRun(e.RunID), e.EntityType, e.EntityID, e.Payload)
	}
}

func shortRun(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}
