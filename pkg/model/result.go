package model

// Result is what a classification run hands back to its caller: either a
// validated classification or a local error message, never both.
type Result struct {
	Classification *BugClassification `json:"classification,omitempty" yaml:"classification,omitempty"`
	Error          string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the result carries the error shape.
func (r *Result) Failed() bool {
	return r.Error != ""
}

// ToMap returns the caller-visible mapping: exactly {"error": ...} or the
// four classification fields.
func (r *Result) ToMap() map[string]any {
	if r.Failed() || r.Classification == nil {
		return map[string]any{"error": r.Error}
	}
	return r.Classification.ToMap()
}
