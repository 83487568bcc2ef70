package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vmunix/paheq/internal/queue"
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Queue and download every job in a YAML file",
	Long: `Reads a YAML file of jobs and downloads them in file order.
Jobs that fail validation are reported and skipped.

  jobs:
    - title: Frieren
      session: 4ad3b2c1
      episodes: 1-4
      resolution: "1080"
    - session: 9f1e0a77`,
	Args: cobra.ExactArgs(1),
	RunE: runBatchCmd,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().Bool("dry-run", false, "Validate and list the jobs without downloading")
}

type batchFile struct {
	Jobs []queue.Request `yaml:"jobs"`
}

// readBatch decodes a batch file.
func readBatch(r io.Reader) ([]queue.Request, error) {
	var f batchFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	return f.Jobs, nil
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	reqs, err := readBatch(file)
	_ = file.Close()
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("%s: no jobs", args[0])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for i, req := range reqs {
		item, err := s.Item(ctx, req)
		if err == nil {
			_, err = s.Queue.Add(item)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, errStyle.Render(fmt.Sprintf("job %d (%s): %v", i+1, jobName(req), err)))
			continue
		}
		if dryRun {
			fmt.Println("  " + item.String())
		}
	}

	if s.Queue.Len() == 0 {
		return fmt.Errorf("no valid jobs in %s", args[0])
	}
	if dryRun {
		fmt.Printf("\n%d of %d jobs valid\n", s.Queue.Len(), len(reqs))
		return nil
	}
	return runQueue(ctx, s)
}

func jobName(req queue.Request) string {
	if req.Title != "" {
		return req.Title
	}
	if req.Session != "" {
		return req.Session
	}
	return "unnamed"
}
