package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/paheq/internal/queue"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download episodes of one title",
	Long: `Resolves the title's episode list, queues the requested episodes
and downloads them one at a time. Episodes default to the full range.`,
	Example: `  paheq download --session 4ad3b2c1 --episodes 1-3,7
  paheq download --session 4ad3b2c1 --title "Frieren" --resolution 1080`,
	Args: cobra.NoArgs,
	RunE: runDownloadCmd,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringP("session", "s", "", "Session key of the title (required)")
	downloadCmd.Flags().StringP("title", "t", "", "Title folder name (default: looked up)")
	downloadCmd.Flags().StringP("episodes", "e", "", "Episodes, e.g. 1,2,5-10 (default: all)")
	downloadCmd.Flags().StringP("resolution", "r", "", "Resolution: 360, 480, 720 or 1080 (default: best)")
	downloadCmd.Flags().StringP("audio", "a", "", "Audio language (default: from config)")
	_ = downloadCmd.MarkFlagRequired("session")
}

func runDownloadCmd(cmd *cobra.Command, args []string) error {
	req := queue.Request{}
	req.Session, _ = cmd.Flags().GetString("session")
	req.Title, _ = cmd.Flags().GetString("title")
	req.EpisodeText, _ = cmd.Flags().GetString("episodes")
	req.Resolution, _ = cmd.Flags().GetString("resolution")
	req.Audio, _ = cmd.Flags().GetString("audio")

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	item, err := s.Item(ctx, req)
	if err != nil {
		return err
	}
	if _, err := s.Queue.Add(item); err != nil {
		return err
	}
	return runQueue(ctx, s)
}

// runQueue runs everything queued, printing events, and reports
// whether every job succeeded.
func runQueue(ctx context.Context, s *session) error {
	r := newRenderer(os.Stdout, verbose)
	if err := s.Run(ctx, r.Handle); err != nil {
		return err
	}

	failed := 0
	for _, e := range s.Queue.Entries() {
		fmt.Println("  " + e.String())
		if e.Result == nil || !e.Result.Success {
			failed++
		}
	}
	if ctx.Err() != nil {
		return fmt.Errorf("interrupted")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs had errors", failed, s.Queue.Len())
	}
	return nil
}
