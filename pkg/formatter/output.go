package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/triage-ai/pkg/model"
)

// Formats lists the accepted --output values.
var Formats = []string{"human", "json", "yaml"}

// DisplayResult writes the result in the requested format. JSON and YAML
// emit the caller-visible mapping: the four fields or a single "error" key.
func DisplayResult(w io.Writer, result *model.Result, format string) error {
	switch format {
	case "json":
		return displayJSON(w, result)
	case "yaml":
		return displayYAML(w, result)
	case "human", "":
		displayHuman(w, result)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

func displayJSON(w io.Writer, result *model.Result) error {
	output, err := json.MarshalIndent(result.ToMap(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, result *model.Result) error {
	var v any = result.ToMap()
	if !result.Failed() && result.Classification != nil {
		v = result.Classification
	}
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

func displayHuman(w io.Writer, result *model.Result) {
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)

	if result.Failed() || result.Classification == nil {
		red.Fprintln(w, "✗ CLASSIFICATION FAILED:")
		fmt.Fprintf(w, "   %s\n", result.Error)
		return
	}
	c := result.Classification

	if c.IsValidBug {
		red.Fprintln(w, "🐞 VALID BUG")
	} else {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "📝 NOT A BUG (feature request or irrelevant)")
	}
	fmt.Fprintln(w)

	getPriorityColor(c.Priority).Fprintf(w, "%s PRIORITY: %s\n", getPriorityIcon(c.Priority), strings.ToUpper(string(c.Priority)))
	cyan.Fprintf(w, "🧩 COMPONENT: %s\n\n", c.Component)

	white.Fprintln(w, "📄 SUMMARY:")
	fmt.Fprintln(w, wrapText(c.SummaryOfBug, 80, "   "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func getPriorityColor(p model.Priority) *color.Color {
	switch p {
	case model.PriorityHigh:
		return color.New(color.FgRed, color.Bold)
	case model.PriorityMedium:
		return color.New(color.FgYellow, color.Bold)
	case model.PriorityLow:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func getPriorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityMedium:
		return "🟡"
	case model.PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
