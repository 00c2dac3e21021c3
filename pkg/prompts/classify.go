package prompts

import "fmt"

const (
	// SystemPrompt frames the model as the classifier.
	SystemPrompt = "You are an expert bug classification system. Classify the report according to the JSON schema."

	humanPrefix = "Classify the following bug report content:\n\n"
)

// BuildClassifyPrompt returns the system and human turns for one report.
// The report text is inserted verbatim.
func BuildClassifyPrompt(content string) (system, human string) {
	return SystemPrompt, fmt.Sprintf("%s%s", humanPrefix, content)
}
