package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/helmcode/triage-ai/cmd"
	"github.com/helmcode/triage-ai/pkg/loader"
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if msg := errorMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

// errorMessage renders err for stderr. Loader errors already start with
// "Error", and a failed classification was printed as part of its result.
func errorMessage(err error) string {
	if errors.Is(err, cmd.ErrClassificationFailed) {
		return ""
	}
	var loadErr *loader.Error
	if errors.As(err, &loadErr) {
		return err.Error()
	}
	return fmt.Sprintf("Error: %v", err)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "triage-ai",
		Short: "AI-powered bug report triage",
		Long: `triage-ai reads a JSON or XML bug report, asks an LLM to classify it and
prints the priority, affected component, whether it is a valid bug and a
one-sentence summary.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cmd.Setup,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(
		cmd.NewClassifyCmd(),
		cmd.NewLoadCmd(),
		cmd.NewSchemaCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("triage-ai version %s\n", version)
		},
	}
}
