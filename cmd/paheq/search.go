package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/paheq/internal/catalog"
)

var searchCmd = &cobra.Command{
	Use:   "search KEYWORD...",
	Short: "Search the title list for session keys",
	Long: `Searches the fetch tool's title list. Matching ignores case, accents
and punctuation; the closest titles are listed first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Bool("refresh", false, "Regenerate the title list before searching")
	searchCmd.Flags().IntP("limit", "n", 20, "Maximum results to show (0 for all)")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	refresh, _ := cmd.Flags().GetBool("refresh")
	limit, _ := cmd.Flags().GetInt("limit")
	keyword := strings.Join(args, " ")

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	listPath := s.Config.ListPath()
	if _, err := os.Stat(listPath); refresh || errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, infoStyle.Render("Refreshing title list..."))
		if err := s.Fetcher.RefreshList(cmd.Context()); err != nil {
			return fmt.Errorf("refresh title list: %w", err)
		}
	}

	cat, err := catalog.Load(listPath)
	if err != nil {
		return err
	}

	matches := cat.Search(keyword)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	if jsonOutput {
		printJSON(searchResults(matches))
		return nil
	}
	printSearchResults(keyword, matches, cat.Len())
	return nil
}

type searchResult struct {
	Session string  `json:"session"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

func searchResults(matches []catalog.Match) []searchResult {
	out := make([]searchResult, len(matches))
	for i, m := range matches {
		out[i] = searchResult{Session: m.Key, Title: m.Title, Score: m.Score}
	}
	return out
}

func printSearchResults(keyword string, matches []catalog.Match, total int) {
	if len(matches) == 0 {
		fmt.Printf("No titles match %q (%d searched)\n", keyword, total)
		return
	}

	fmt.Printf("Found %d titles:\n\n", len(matches))
	fmt.Printf("  %-38s %s\n", "SESSION", "TITLE")
	fmt.Println("  " + strings.Repeat("-", 70))
	for _, m := range matches {
		key := m.Key
		if key == "" {
			key = "-"
		}
		fmt.Printf("  %-38s %s\n", key, m.Title)
	}
}
