package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var metaCmd = &cobra.Command{
	Use:   "meta SESSION",
	Short: "Show the episode range known for a title",
	Long: `Looks up the title's downloaded metadata to find its available episodes.
When none is found the fetch tool is run once to fetch it.`,
	Args: cobra.ExactArgs(1),
	RunE: runMetaCmd,
}

func init() {
	rootCmd.AddCommand(metaCmd)
	metaCmd.Flags().StringP("title", "t", "", "Title folder name, checked before scanning")
}

func runMetaCmd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	loc, err := s.Resolver.Resolve(cmd.Context(), args[0], title)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]any{
			"session": args[0],
			"folder":  loc.Folder,
			"min":     loc.Bounds.Min,
			"max":     loc.Bounds.Max,
		})
		return nil
	}
	fmt.Printf("Session:  %s\n", args[0])
	fmt.Printf("Folder:   %s\n", loc.Folder)
	fmt.Printf("Episodes: %s\n", loc.Bounds)
	return nil
}
