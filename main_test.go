package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/triage-ai/cmd"
	"github.com/helmcode/triage-ai/pkg/loader"
)

func TestErrorMessage(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	_, loadErr := loader.Load(missing)
	require.Error(t, loadErr)

	msg := errorMessage(loadErr)
	assert.Equal(t, loadErr.Error(), msg)
	assert.NotContains(t, msg, "Error: Error")

	assert.Equal(t, "Error: boom", errorMessage(errors.New("boom")))
	assert.Empty(t, errorMessage(fmt.Errorf("wrapped: %w", cmd.ErrClassificationFailed)))
}

func TestLoadCommandMissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetArgs([]string{"load", filepath.Join(t.TempDir(), "missing.json")})

	err := root.Execute()
	require.Error(t, err)
	assert.Regexp(t, `^Error reading file: `, errorMessage(err))
}
