package model

import (
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Priority is the severity bucket assigned to a report.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Component is the application area a report affects.
type Component string

const (
	ComponentUI       Component = "UI"
	ComponentBackend  Component = "Backend"
	ComponentDatabase Component = "Database"
	ComponentAPI      Component = "API"
	ComponentTesting  Component = "Testing"
)

var (
	priorities = sets.New(PriorityHigh, PriorityMedium, PriorityLow)
	components = sets.New(ComponentUI, ComponentBackend, ComponentDatabase, ComponentAPI, ComponentTesting)
)

// Priorities returns the declared priority domain in schema order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Components returns the declared component domain in schema order.
func Components() []Component {
	return []Component{ComponentUI, ComponentBackend, ComponentDatabase, ComponentAPI, ComponentTesting}
}

// BugClassification is the structured output requested from the model.
type BugClassification struct {
	Priority     Priority  `json:"priority" yaml:"priority" jsonschema:"enum=High,enum=Medium,enum=Low" jsonschema_description:"The severity of the bug: High, Medium, or Low."`
	Component    Component `json:"component" yaml:"component" jsonschema:"enum=UI,enum=Backend,enum=Database,enum=API,enum=Testing" jsonschema_description:"The primary application component this bug affects."`
	IsValidBug   bool      `json:"is_valid_bug" yaml:"is_valid_bug" jsonschema_description:"True if the report is a valid bug; False if it is a feature request or irrelevant."`
	SummaryOfBug string    `json:"summary_of_bug" yaml:"summary_of_bug" jsonschema_description:"A one-sentence summary of the bug and its impact."`
}

// Validate checks every field against its declared domain. Out-of-domain
// values are reported, never coerced.
func (c *BugClassification) Validate() field.ErrorList {
	var errs field.ErrorList
	if !priorities.Has(c.Priority) {
		errs = append(errs, field.NotSupported(field.NewPath("priority"), string(c.Priority), Priorities()))
	}
	if !components.Has(c.Component) {
		errs = append(errs, field.NotSupported(field.NewPath("component"), string(c.Component), Components()))
	}
	if c.SummaryOfBug == "" {
		errs = append(errs, field.Required(field.NewPath("summary_of_bug"), "a one-sentence summary is required"))
	}
	return errs
}

// ToMap flattens the classification into its four declared fields.
func (c *BugClassification) ToMap() map[string]any {
	return map[string]any{
		"priority":       string(c.Priority),
		"component":      string(c.Component),
		"is_valid_bug":   c.IsValidBug,
		"summary_of_bug": c.SummaryOfBug,
	}
}
