package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/loader"
)

func NewLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Print the normalized report text that would be sent to the model",
		Long: `Parse a .json or .xml report exactly as classify does and print the text
without contacting any provider.

Examples:
  triage-ai load bug_report.json
  triage-ai load feature_request.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := loader.Load(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
			return err
		},
	}
}
