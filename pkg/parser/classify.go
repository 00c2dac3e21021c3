package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/helmcode/triage-ai/pkg/model"
)

var (
	// ErrEmptyResponse is returned when the provider sends no content at all.
	ErrEmptyResponse = errors.New("empty response from model")
)

const fence = "```"

// rawClassification mirrors model.BugClassification with pointers so a
// missing field can be told apart from its zero value.
type rawClassification struct {
	Priority     *string `json:"priority"`
	Component    *string `json:"component"`
	IsValidBug   *bool   `json:"is_valid_bug"`
	SummaryOfBug *string `json:"summary_of_bug"`
}

// ParseClassification decodes the model's reply and validates it against
// the declared domains. Nothing is defaulted or coerced: a reply with a
// missing field or an undeclared enum value is an error.
func ParseClassification(raw string) (*model.BugClassification, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var rc rawClassification
	if err := json.Unmarshal([]byte(cleaned), &rc); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}

	var errs field.ErrorList
	required := []struct {
		name    string
		present bool
	}{
		{"priority", rc.Priority != nil},
		{"component", rc.Component != nil},
		{"is_valid_bug", rc.IsValidBug != nil},
		{"summary_of_bug", rc.SummaryOfBug != nil},
	}
	for _, r := range required {
		if !r.present {
			errs = append(errs, field.Required(field.NewPath(r.name), ""))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid classification: %w", errs.ToAggregate())
	}

	c := &model.BugClassification{
		Priority:     model.Priority(*rc.Priority),
		Component:    model.Component(*rc.Component),
		IsValidBug:   *rc.IsValidBug,
		SummaryOfBug: strings.TrimSpace(*rc.SummaryOfBug),
	}
	if errs := c.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid classification: %w", errs.ToAggregate())
	}
	return c, nil
}

// stripFences removes a markdown code fence such as ```json ... ``` wrapping
// the whole reply. Backticks inside the JSON are left alone.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, fence) {
		return text
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, fence)
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, fence))
}
