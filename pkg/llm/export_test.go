package llm

import (
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaioption "github.com/openai/openai-go/option"
)

func openaiBaseURL(u string) openaioption.RequestOption       { return openaioption.WithBaseURL(u) }
func anthropicBaseURL(u string) anthropicoption.RequestOption { return anthropicoption.WithBaseURL(u) }
