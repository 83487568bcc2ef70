package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/paheq/internal/config"
	"github.com/vmunix/paheq/internal/fetch"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates TOML syntax, settings and environment variable substitution, then checks that the fetch tool can be found.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	configInitCmd.Flags().Bool("current", false, "Write the currently loaded settings instead of the commented template")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.Error
		if errors.As(err, &configErr) {
			printConfigErrors(configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(cfg)

	for _, w := range cfg.Warnings() {
		fmt.Println(warnStyle.Render("  warning: " + w))
	}

	tool, err := fetch.Detect(fetch.Options{
		Shell:   cfg.Fetch.Shell,
		Script:  cfg.Fetch.Script,
		WorkDir: cfg.Fetch.WorkDir,
	})
	if err != nil {
		fmt.Println(errStyle.Render("  fetch tool: " + err.Error()))
		return fmt.Errorf("fetch tool unavailable")
	}
	fmt.Printf("  Tool:       %s %s\n", tool.Shell, tool.Script)

	fmt.Println("\nConfiguration valid!")
	return nil
}

func printConfigErrors(e *config.Error) {
	if len(e.Missing) > 0 {
		fmt.Println("Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Printf("  - %s\n", m)
		}
		fmt.Println()
	}

	if len(e.Errors) > 0 {
		fmt.Println("Validation errors:")
		for _, err := range e.Errors {
			fmt.Printf("  - %s\n", err)
		}
		fmt.Println()
	}
}

func printConfigSummary(cfg *config.Config) {
	res := cfg.Defaults.Resolution
	if res == "" {
		res = "auto"
	}

	fmt.Println("Configuration Summary:")
	fmt.Printf("  Fetch:      %s %s (threads: %d)\n", cfg.Fetch.Shell, cfg.Fetch.Script, cfg.Fetch.Threads)
	fmt.Printf("  Work dir:   %s\n", cfg.Fetch.WorkDir)
	fmt.Printf("  Defaults:   audio %s, resolution %s\n", cfg.Defaults.Audio, res)
	fmt.Printf("  Catalog:    %s\n", cfg.ListPath())
	fmt.Printf("  Metadata:   cached for %s\n", cfg.CacheTTL())
	fmt.Printf("  History:    %s (%d days)\n", cfg.History.Path, cfg.History.RetentionDays)
	fmt.Printf("  Logging:    %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Logging.File != "" {
		fmt.Printf(" -> %s", cfg.Logging.File)
	}
	fmt.Println()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	current, _ := cmd.Flags().GetBool("current")

	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	var err error
	if current {
		cfg, loadErr := loadConfig()
		if loadErr != nil {
			return loadErr
		}
		err = cfg.Write(path, force)
	} else {
		err = config.WriteDefault(path, force)
	}
	if errors.Is(err, config.ErrExists) {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
