package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/triage-ai/pkg/model"
)

const classificationJSON = `{"priority":"High","component":"UI","is_valid_bug":true,"summary_of_bug":"Checkout button fails."}`

func testRequest() Request {
	return Request{
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
		SchemaName:   model.SchemaName,
		Schema:       model.Schema(),
	}
}

// fakeServer records the last request body and answers with a fixed status and body.
func fakeServer(t *testing.T, status int, reply string) (*httptest.Server, *map[string]any, *int32) {
	t.Helper()
	var (
		body map[string]any
		hits int32
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &body, &hits
}

func jsonString(t *testing.T, v string) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestOpenAIChat(t *testing.T) {
	reply := `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
		"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` + jsonString(t, classificationJSON) + `}}],
		"usage":{"prompt_tokens":12,"completion_tokens":7,"total_tokens":19}}`
	srv, body, _ := fakeServer(t, http.StatusOK, reply)

	l, err := NewFactory().CreateLLM(context.Background(), ProviderOpenAI, map[string]string{
		ConfigAPIKey: "test-key", ConfigBaseURL: srv.URL,
	})
	require.NoError(t, err)

	out, err := l.Chat(context.Background(), testRequest())
	require.NoError(t, err)
	assert.JSONEq(t, classificationJSON, out)

	sent := *body
	assert.Equal(t, "gpt-4o-mini", sent["model"])
	assert.EqualValues(t, 0, sent["temperature"])
	messages := sent["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])

	format := sent["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, model.SchemaName, schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestOpenAIChat_NoRetryOnServerError(t *testing.T) {
	srv, _, hits := fakeServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)

	l := NewOpenAI("test-key", openaiBaseURL(srv.URL))
	_, err := l.Chat(context.Background(), testRequest())
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
}

func TestClaudeChat_ForcesSchemaTool(t *testing.T) {
	reply := `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514",
		"content":[{"type":"tool_use","id":"toolu_1","name":"bug_classification","input":` + classificationJSON + `}],
		"stop_reason":"tool_use","stop_sequence":null,"usage":{"input_tokens":20,"output_tokens":9}}`
	srv, body, _ := fakeServer(t, http.StatusOK, reply)

	l, err := NewFactory().CreateLLM(context.Background(), ProviderClaude, map[string]string{
		ConfigAPIKey: "test-key", ConfigBaseURL: srv.URL,
	})
	require.NoError(t, err)

	out, err := l.Chat(context.Background(), testRequest())
	require.NoError(t, err)
	assert.JSONEq(t, classificationJSON, out)

	sent := *body
	assert.EqualValues(t, 0, sent["temperature"])
	choice := sent["tool_choice"].(map[string]any)
	assert.Equal(t, "tool", choice["type"])
	assert.Equal(t, model.SchemaName, choice["name"])

	tools := sent["tools"].([]any)
	require.Len(t, tools, 1)
	inputSchema := tools[0].(map[string]any)["input_schema"].(map[string]any)
	assert.Equal(t, "object", inputSchema["type"])
	assert.Contains(t, inputSchema["properties"], "priority")
	assert.Len(t, inputSchema["required"], 4)
}

func TestClaudeChat_NoRetryOnServerError(t *testing.T) {
	srv, _, hits := fakeServer(t, http.StatusInternalServerError, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)

	l := NewClaude("test-key", anthropicBaseURL(srv.URL))
	_, err := l.Chat(context.Background(), testRequest())
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
}

func TestGeminiChat(t *testing.T) {
	reply := `{"candidates":[{"content":{"role":"model","parts":[{"text":` + jsonString(t, classificationJSON) + `}]},"finishReason":"STOP"}],
		"usageMetadata":{"promptTokenCount":15,"candidatesTokenCount":8}}`
	srv, body, _ := fakeServer(t, http.StatusOK, reply)

	l, err := NewFactory().CreateLLM(context.Background(), ProviderGemini, map[string]string{
		ConfigAPIKey: "test-key", ConfigBaseURL: srv.URL,
	})
	require.NoError(t, err)

	out, err := l.Chat(context.Background(), testRequest())
	require.NoError(t, err)
	assert.JSONEq(t, classificationJSON, out)

	sent := *body
	require.Contains(t, sent, "generationConfig")
	gen := sent["generationConfig"].(map[string]any)
	assert.EqualValues(t, 0, gen["temperature"])
	assert.Equal(t, "application/json", gen["responseMimeType"])
	assert.Contains(t, sent, "systemInstruction")
}

func TestToGeminiSchema(t *testing.T) {
	s := toGeminiSchema(model.Schema())

	assert.Equal(t, []string{"priority", "component", "is_valid_bug", "summary_of_bug"}, s.PropertyOrdering)
	assert.ElementsMatch(t, s.PropertyOrdering, s.Required)
	require.Contains(t, s.Properties, "priority")
	assert.Equal(t, []string{"High", "Medium", "Low"}, s.Properties["priority"].Enum)
	assert.Equal(t, []string{"UI", "Backend", "Database", "API", "Testing"}, s.Properties["component"].Enum)
	assert.NotEmpty(t, s.Properties["summary_of_bug"].Description)
}
