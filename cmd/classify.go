package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/classifier"
	"github.com/helmcode/triage-ai/pkg/config"
	"github.com/helmcode/triage-ai/pkg/formatter"
)

// ErrClassificationFailed is returned when the report could not be loaded.
// The reason has already been rendered in the requested format.
var ErrClassificationFailed = errors.New("classification failed")

type classifyOptions struct {
	outputFormat string
	provider     string
	model        string
	baseURL      string
	timeout      time.Duration
}

func NewClassifyCmd() *cobra.Command {
	opts := &classifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify FILE",
		Short: "Classify a JSON or XML bug report with AI assistance",
		Long: `Read a bug or feature report (.json or .xml), send its content to an LLM and
print a validated classification: priority, component, whether it is a real bug
and a one-sentence summary.

Examples:
  # Classify a JSON bug report with Gemini (needs GOOGLE_API_KEY)
  triage-ai classify bug_report.json

  # Machine-readable output
  triage-ai classify feature_request.xml -o json

  # Use another provider and model
  triage-ai classify bug_report.json --provider openai --model gpt-4o`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", "", "Output format (human, json, yaml)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "LLM provider (gemini, openai, claude). Defaults to LLM_PROVIDER or gemini")
	cmd.Flags().StringVar(&opts.model, "model", "", "LLM model to use (overrides default)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Custom API endpoint for the provider")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Give up waiting for the provider after this long (0 waits indefinitely)")

	return cmd
}

func runClassify(cmd *cobra.Command, opts *classifyOptions, path string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if opts.outputFormat == "" {
		opts.outputFormat = cfg.Output
	}
	if opts.outputFormat != "" && !slices.Contains(formatter.Formats, opts.outputFormat) {
		return fmt.Errorf("unsupported output format %q (supported: %s)", opts.outputFormat, strings.Join(formatter.Formats, ", "))
	}

	settings, err := cfg.Resolve(config.Overrides{
		Provider: opts.provider,
		Model:    opts.model,
		BaseURL:  opts.baseURL,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	human := opts.outputFormat == "" || opts.outputFormat == "human"
	if human {
		printHeader(path, settings)
	}

	s := newSpinner(os.Stderr, "Classifying with AI...")
	if human {
		s.Start()
	}
	result, err := classifier.NewLazy(settings.NewLLM).Classify(ctx, path)
	s.Stop()
	if err != nil {
		return fmt.Errorf("AI classification failed: %w", err)
	}
	if human && !result.Failed() {
		printSuccess("Classification complete")
	}

	if err := formatter.DisplayResult(cmd.OutOrStdout(), result, opts.outputFormat); err != nil {
		return err
	}
	if result.Failed() {
		return ErrClassificationFailed
	}
	return nil
}

func printHeader(path string, s *config.Settings) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(os.Stderr)
	cyan.Fprintln(os.Stderr, "🔍 AI Bug Triage")
	printKV("📄 Report", path)
	model := s.Model
	if model == "" {
		model = "default"
	}
	printKV("🤖 Provider", fmt.Sprintf("%s (%s)", s.Provider, model))
	if s.APIKey == "" {
		printError(fmt.Sprintf("%s is not set", strings.Join(s.APIKeyNames, " or ")))
	}
	fmt.Fprintln(os.Stderr)
}
