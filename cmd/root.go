// Package cmd provides the command-line interface for chirp: an interactive
// shell over the social data store. The shell is a thin caller; every rule
// that matters lives in storage and feed.
package cmd

import (
	"os"
	"time"

	"chirp/bootstrap"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// Global flags
var (
	configFile string
	noColor    bool
)

// NewRootCmd creates the root command. Running it with no subcommand starts
// the interactive shell.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chirp",
		Short: "In-memory social network with snapshot persistence",
		Long: `chirp is a single-process social-network data store: users, posts,
comments, likes, and direct messages are held in memory and persisted as one
versioned snapshot file. Running chirp starts the interactive shell.`,
		SilenceUsage: true,
		RunE:         runShell,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return rootCmd
}

func runShell(cmd *cobra.Command, args []string) error {
	if noColor {
		color.NoColor = true
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " Loading snapshot..."
	sp.Start()
	app, err := bootstrap.NewApp(configFile)
	sp.Stop()
	if err != nil {
		return err
	}
	defer app.Shutdown()

	return newShell(app, os.Stdin, os.Stdout).run()
}
