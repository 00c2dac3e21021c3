package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildClassifyPrompt(t *testing.T) {
	content := "Id: I-201\nSummary: 100% of {users} see %s"

	system, human := BuildClassifyPrompt(content)

	assert.Equal(t, "You are an expert bug classification system. Classify the report according to the JSON schema.", system)
	assert.Equal(t, "Classify the following bug report content:\n\n"+content, human)
}
