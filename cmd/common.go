package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/config"
)

var (
	configPath string
	verbose    bool
)

// AddGlobalFlags registers flags shared by every subcommand.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// Setup loads .env and configures logging. It runs before every subcommand.
func Setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	// A config path given explicitly must exist.
	return config.Load(configPath, cmd.Flags().Changed("config"))
}

func newSpinner(w io.Writer, suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	return s
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "✗ %s\n", msg)
}

func printKV(key, value string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.HiBlackString(key+":"), value)
}
