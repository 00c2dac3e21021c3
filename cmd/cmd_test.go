package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(io.Discard)
	c.SetArgs(args)
	c.SilenceUsage = true
	c.SilenceErrors = true
	err := c.Execute()
	return out.String(), err
}

func writeReport(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCmd(t *testing.T) {
	path := writeReport(t, "r.xml", "<report><title>Crash</title><owner>qa</owner></report>")

	out, err := execute(t, NewLoadCmd(), path)
	require.NoError(t, err)
	assert.Equal(t, "Title: Crash\nOwner: qa\n", out)

	unsupported := writeReport(t, "r.yaml", "a: 1")
	_, err = execute(t, NewLoadCmd(), unsupported)
	assert.EqualError(t, err, "Error: Unsupported file format for "+unsupported)
}

func TestSchemaCmd(t *testing.T) {
	out, err := execute(t, NewSchemaCmd())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Contains(t, doc["properties"], "is_valid_bug")
}

func TestClassifyCmd_UnsupportedFileNeedsNoCredential(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	path := writeReport(t, "report.txt", "text")

	out, err := execute(t, NewClassifyCmd(), path, "-o", "json")
	assert.True(t, errors.Is(err, ErrClassificationFailed))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"error": "Error: Unsupported file format for " + path}, got)
}

func TestClassifyCmd_MissingCredentialFailsFast(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	path := writeReport(t, "report.json", `{"title":"x"}`)

	out, err := execute(t, NewClassifyCmd(), path, "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
	assert.Empty(t, out)
}

func TestClassifyCmd_EndToEndWithFakeGemini(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"priority\":\"High\",\"component\":\"UI\",\"is_valid_bug\":true,\"summary_of_bug\":\"Order button does nothing.\"}"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "")
	path := writeReport(t, "bug.json", `{"bug_id":"B-405","title":"Button click sometimes does nothing on checkout page"}`)

	out, err := execute(t, NewClassifyCmd(), path, "-o", "json", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
	assert.JSONEq(t, `{"priority":"High","component":"UI","is_valid_bug":true,"summary_of_bug":"Order button does nothing."}`, out)
}

func TestClassifyCmd_RejectsUnknownOutputFormat(t *testing.T) {
	path := writeReport(t, "report.json", `{"title":"x"}`)

	_, err := execute(t, NewClassifyCmd(), path, "-o", "toml")
	assert.ErrorContains(t, err, `unsupported output format "toml"`)
}
