// Package classifier runs one report file through the model and returns a
// validated classification.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/helmcode/triage-ai/pkg/llm"
	"github.com/helmcode/triage-ai/pkg/loader"
	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/parser"
	"github.com/helmcode/triage-ai/pkg/prompts"
)

// NewLLMFunc builds the model client on first use.
type NewLLMFunc func(ctx context.Context) (llm.LLM, error)

type Classifier struct {
	llm    llm.LLM
	newLLM NewLLMFunc
}

func New(l llm.LLM) *Classifier {
	return &Classifier{llm: l}
}

// NewLazy defers building the client until a report has loaded, so a bad
// file is reported even when no provider is configured.
func NewLazy(newLLM NewLLMFunc) *Classifier {
	return &Classifier{newLLM: newLLM}
}

// NewFromEnv picks the provider from LLM_PROVIDER and its credential variables.
func NewFromEnv() *Classifier {
	return NewLazy(func(ctx context.Context) (llm.LLM, error) {
		return llm.CreateFromEnv(ctx, "", "")
	})
}

func (c *Classifier) client(ctx context.Context) (llm.LLM, error) {
	if c.llm != nil {
		return c.llm, nil
	}
	if c.newLLM == nil {
		return nil, errors.New("classifier has no LLM configured")
	}
	l, err := c.newLLM(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize LLM client: %w", err)
	}
	c.llm = l
	return l, nil
}

// Classify loads path and asks the model to classify it.
//
// Local problems with the file (missing, unreadable, malformed, unsupported
// extension) come back as a Result carrying the loader's message, and the
// model is never called. A missing credential, provider failures and replies
// that do not satisfy the schema are returned as errors.
func (c *Classifier) Classify(ctx context.Context, path string) (*model.Result, error) {
	content, err := loader.Load(path)
	if err != nil {
		var loadErr *loader.Error
		if !errors.As(err, &loadErr) {
			return nil, err
		}
		slog.DebugContext(ctx, "report not loaded", "path", path, "error", err)
		return &model.Result{Error: loadErr.Error()}, nil
	}

	client, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	system, human := prompts.BuildClassifyPrompt(content)
	slog.DebugContext(ctx, "classifying report",
		"path", path,
		"provider", client.Name(),
		"model", client.GetModel(),
		"content_bytes", len(content))

	raw, err := client.Chat(ctx, llm.Request{
		SystemPrompt: system,
		UserPrompt:   human,
		SchemaName:   model.SchemaName,
		Schema:       model.Schema(),
		Temperature:  0,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM chat: %w", err)
	}

	classification, err := parser.ParseClassification(raw)
	if err != nil {
		return nil, err
	}
	return &model.Result{Classification: classification}, nil
}
