package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/paheq/internal/queue"
)

const shellHelp = `Commands:
  add SESSION [EPISODES] [RESOLUTION] [AUDIO]   queue a title
  rm N                                          remove job N
  clear                                         remove every job
  ls                                            list the queue
  start                                         run the queue
  stop                                          stop after the current episode
  quit                                          stop and exit

Jobs can be added while the queue runs; jobs already started
cannot be removed.`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Build and run a queue interactively",
	Long:  "Starts an interactive prompt for building a download queue.\n\n" + shellHelp,
	Args:  cobra.NoArgs,
	RunE:  runShellCmd,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShellCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh := newShell(s, newRenderer(os.Stdout, verbose))

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		return s.Watch(gctx, sh.r.Handle)
	})
	g.Go(func() error {
		defer cancel()
		return sh.loop(gctx, os.Stdin)
	})
	return g.Wait()
}

var errQuit = errors.New("quit")

type shell struct {
	s         *session
	r         *renderer
	cancelRun context.CancelFunc
}

func newShell(s *session, r *renderer) *shell {
	return &shell{s: s, r: r}
}

// loop reads commands from in until quit, end of input or ctx is done.
// A running queue is stopped and waited for before returning.
func (sh *shell) loop(ctx context.Context, in io.Reader) error {
	defer sh.stopRun(true)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	sh.r.Printf("paheq shell, type 'help' for commands\n")
	for {
		sh.r.Printf("> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := sh.exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				sh.r.Printf("%s\n", errStyle.Render(err.Error()))
			}
		}
	}
}

// exec runs one shell command line.
func (sh *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	q := sh.s.Queue

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "add":
		if len(args) == 0 || len(args) > 4 {
			return fmt.Errorf("usage: add SESSION [EPISODES] [RESOLUTION] [AUDIO]")
		}
		req := queue.Request{Session: args[0]}
		if len(args) > 1 {
			req.EpisodeText = args[1]
		}
		if len(args) > 2 {
			req.Resolution = args[2]
		}
		if len(args) > 3 {
			req.Audio = args[3]
		}
		item, err := sh.s.Item(ctx, req)
		if err != nil {
			return err
		}
		item, err = q.Add(item)
		if err != nil {
			return err
		}
		sh.r.Printf("added %d. %s\n", q.Len(), item)

	case "rm", "remove":
		if len(args) != 1 {
			return fmt.Errorf("usage: rm N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("rm: %q is not a job number", args[0])
		}
		if err := q.Remove(n - 1); err != nil {
			return err
		}
		sh.r.Printf("removed job %d\n", n)

	case "clear":
		if err := q.Clear(); err != nil {
			return err
		}
		sh.r.Printf("queue cleared\n")

	case "ls", "list":
		sh.list()

	case "start":
		runCtx, cancel := context.WithCancel(ctx)
		if err := q.Start(runCtx); err != nil {
			cancel()
			return err
		}
		if sh.cancelRun != nil {
			sh.cancelRun() // previous run has ended
		}
		sh.cancelRun = cancel

	case "stop":
		if !q.Running() {
			return fmt.Errorf("queue is not running")
		}
		sh.stopRun(false)
		sh.r.Printf("stopping after the current episode\n")

	case "help", "?":
		sh.r.Printf("%s\n", shellHelp)

	case "quit", "exit", "q":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	return nil
}

func (sh *shell) list() {
	entries := sh.s.Queue.Entries()
	if len(entries) == 0 {
		sh.r.Printf("queue is empty\n")
		return
	}
	for _, e := range entries {
		sh.r.Printf("%3d. %-8s %-12s %s\n", e.Index+1, e.State, e.Progress, e)
	}
}

// stopRun cancels the active run, optionally waiting for it to end.
func (sh *shell) stopRun(wait bool) {
	if sh.cancelRun == nil {
		return
	}
	sh.cancelRun()
	if wait {
		sh.s.Queue.Wait()
	}
}
