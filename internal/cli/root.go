// Package cli provides the cobra command tree of mdnames.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnames/internal/logging"
	"github.com/yaklabco/mdnames/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Persistent flag names shared by subcommands.
const (
	flagConfig = "config"
	flagColor  = "color"
	flagDebug  = "debug"
)

// NewRootCommand creates the root mdnames command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdnames",
		Short: "Check the capitalization of proper names in Markdown",
		Long: `mdnames reports proper names written with the wrong capitalization in
Markdown files, such as "Github" for "GitHub", and can fix them in place.

Names inside URLs, link destinations and link reference definitions are
never touched. Code, HTML and heading IDs are checked unless turned off.
Settings come from .mdnames.yml (or .toml/.json), MDNAMES_* environment
variables and flags; an existing markdownlint config is used when no
mdnames config is found.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !config.ColorMode(color).IsValid() {
				return usageErrorf("invalid --color %q: must be auto, always or never", color)
			}

			level := "info"
			if debug {
				level = "debug"
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level, false)
			logging.SetDefault(logger)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, flagDebug, false, "enable debug logging")
	rootCmd.PersistentFlags().String(flagConfig, "", "path to config file, merged over discovered ones")
	rootCmd.PersistentFlags().StringVar(&color, flagColor, string(config.ColorAuto),
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.AddCommand(newLintCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newNamesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))
	rootCmd.AddCommand(newExitCodesCommand())

	NewHelpFormatter(config.ColorAuto, nil).ApplyToCommand(rootCmd)

	return rootCmd
}
