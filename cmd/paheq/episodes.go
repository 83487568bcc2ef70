package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/paheq/internal/episode"
)

var episodesCmd = &cobra.Command{
	Use:   "episodes SPEC",
	Short: "Expand an episode specification",
	Long: `Expands an episode specification such as "1,2,5-10" against the given
bounds and prints the resulting episode numbers. Nothing is downloaded.`,
	Example: `  paheq episodes 1-3,7 --max 12
  paheq episodes 13-15 --min 13 --max 24`,
	Args: cobra.ExactArgs(1),
	RunE: runEpisodesCmd,
}

func init() {
	rootCmd.AddCommand(episodesCmd)
	episodesCmd.Flags().Int("min", 1, "First available episode")
	episodesCmd.Flags().Int("max", 0, "Last available episode (required)")
	_ = episodesCmd.MarkFlagRequired("max")
}

func runEpisodesCmd(cmd *cobra.Command, args []string) error {
	minEp, _ := cmd.Flags().GetInt("min")
	maxEp, _ := cmd.Flags().GetInt("max")

	bounds := episode.Bounds{Min: minEp, Max: maxEp}
	if err := bounds.Validate(); err != nil {
		return err
	}

	eps, err := episode.Parse(args[0], bounds.Min, bounds.Max)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(eps)
		return nil
	}
	fmt.Println(formatEpisodes(eps))
	return nil
}

// formatEpisodes prints the list followed by its compact form.
func formatEpisodes(eps []int) string {
	nums := make([]string, len(eps))
	for i, n := range eps {
		nums[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("%s\n%d episodes (%s)", strings.Join(nums, " "), len(eps), episode.Format(eps))
}
