package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	configPath, metricsAddr, logLevel = "", "", ""
	t.Setenv("WINNOW_CONFIG", "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProvidersListsHTTP(t *testing.T) {
	out, err := execute(t, "providers")
	require.NoError(t, err)
	assert.Contains(t, strings.Fields(out), "http")
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy","data_service":"connected"}`))
	}))
	defer srv.Close()
	t.Setenv("WINNOW_ENDPOINT", srv.URL)

	out, err := execute(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "is healthy")
}

func TestRunRejectsMissingScript(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(scriptPath, []byte("steps: [{op: status}]\n"), 0o644))
	t.Setenv("WINNOW_VERBOSITY", "loud")

	_, err := execute(t, "run", scriptPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbosity")
}

func TestReplLoop(t *testing.T) {
	in := strings.NewReader("help\n\nstatus\nbogus\nquit\nstatus\n")
	var out bytes.Buffer
	var seen []string

	err := repl(in, &out, func(line string) error {
		seen = append(seen, line)
		if line == "bogus" {
			return errors.New("unknown op")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"status", "bogus"}, seen, "stops at quit")
	assert.Contains(t, out.String(), "commands:")
	assert.Contains(t, out.String(), "error: unknown op")
}

func TestReplEOF(t *testing.T) {
	var out bytes.Buffer
	calls := 0
	err := repl(strings.NewReader("status"), &out, func(string) error { calls++; return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
