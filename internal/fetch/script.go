// Package fetch wraps the external episode download script.
//
// The script is treated as an opaque subprocess: one invocation per
// episode, stdout and stderr merged into a single line stream, exit
// status 0 meaning success. Output is never parsed for progress.
package fetch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"time"
)

// Request describes a single-episode download.
type Request struct {
	Session    string
	Episode    int
	Resolution string // empty lets the tool pick
	Audio      string
}

// Options configures the script wrapper.
type Options struct {
	Shell   string // interpreter, e.g. "bash"; empty runs the script directly
	Script  string // script path, resolved against WorkDir when relative
	WorkDir string // working directory and output location
	Threads int    // download threads hint passed as -t
}

// waitDelay bounds how long Wait keeps reading output after the tool
// exits, in case a background child still holds the pipe.
var waitDelay = 5 * time.Second

// Script runs the fetch tool.
type Script struct {
	opts Options
	log  *slog.Logger
}

// NewScript creates a fetch tool wrapper.
func NewScript(opts Options, logger *slog.Logger) *Script {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Threads <= 0 {
		opts.Threads = 16
	}
	return &Script{
		opts: opts,
		log:  logger.With("component", "fetch"),
	}
}

// Args returns the tool arguments for one episode, without the interpreter.
func (s *Script) Args(req Request) []string {
	args := []string{
		"-s", req.Session,
		"-e", strconv.Itoa(req.Episode),
		"-o", req.Audio,
		"-t", strconv.Itoa(s.opts.Threads),
	}
	if req.Resolution != "" {
		args = append(args, "-r", req.Resolution)
	}
	return args
}

// Fetch downloads one episode, calling out for every output line as it
// arrives. A run that has started is never interrupted; ctx is only
// checked before spawning. A nonzero exit returns *ExitError.
func (s *Script) Fetch(ctx context.Context, req Request, out func(line string)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Debug("fetching episode", "session", req.Session, "episode", req.Episode)
	return s.run(s.Args(req), out)
}

// Prime asks the tool to write metadata for session without downloading.
func (s *Script) Prime(ctx context.Context, session string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("priming metadata", "session", session)
	args := []string{"-s", session, "-e", "1", "-r", "360", "-o", "jpn", "-t", "1", "-l"}
	return s.run(args, func(line string) {
		s.log.Debug("prime output", "line", line)
	})
}

// RefreshList runs the tool bare so it regenerates its title list.
func (s *Script) RefreshList(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("refreshing title list")
	return s.run(nil, func(line string) {
		s.log.Debug("refresh output", "line", line)
	})
}

func (s *Script) command(args []string) *exec.Cmd {
	var cmd *exec.Cmd
	if s.opts.Shell != "" {
		cmd = exec.Command(s.opts.Shell, append([]string{s.opts.Script}, args...)...)
	} else {
		cmd = exec.Command(s.opts.Script, args...)
	}
	cmd.Dir = s.opts.WorkDir
	cmd.WaitDelay = waitDelay
	return cmd
}

func (s *Script) run(args []string, out func(line string)) error {
	cmd := s.command(args)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return fmt.Errorf("start fetch tool: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		scanner.Split(scanLines)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				out(line)
			}
		}
		if err := scanner.Err(); err != nil {
			s.log.Warn("reading fetch output", "error", err)
		}
		// keep the writer side unblocked if scanning stopped early
		_, _ = io.Copy(io.Discard, pr)
	}()

	waitErr := cmd.Wait()
	pw.Close()
	<-done

	if errors.Is(waitErr, exec.ErrWaitDelay) {
		s.log.Warn("fetch tool left output open after exit", "args", cmd.Args)
		waitErr = nil
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExitError{Args: cmd.Args, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("wait fetch tool: %w", waitErr)
	}
	return nil
}

// scanLines splits on \n, \r\n, or a bare \r so progress redraws arrive
// as separate lines.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		if data[i] == '\r' && i+1 == len(data) && !atEOF {
			// need more data to tell \r from \r\n
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
