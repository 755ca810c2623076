package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, serverURL, journal string) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf("checkin_url: %q\ncheckout_url: %q\njournal_path: %q\nlog:\n  file: %q\n",
		serverURL+"/in", serverURL+"/out", journal, filepath.Join(dir, "punchclock.log"))
	path := filepath.Join(dir, "punchclock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckInCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/in", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := writeTestConfig(t, srv.URL, ":memory:")

	out, err := execute(t, "check-in", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Checked in successfully.\n", out)
}

func TestCheckOutCommandFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := writeTestConfig(t, srv.URL, ":memory:")

	out, err := execute(t, "check-out", "--config", cfg)
	require.ErrorIs(t, err, errPunchFailed)
	assert.Equal(t, "Check-out failed.\n", out)
}

func TestHistoryCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	journal := filepath.Join(t.TempDir(), "punches.db")
	cfg := writeTestConfig(t, srv.URL, journal)

	_, err := execute(t, "check-in", "--config", cfg)
	require.NoError(t, err)
	_, err = execute(t, "check-out", "--config", cfg)
	require.NoError(t, err)

	out, err := execute(t, "history", "--config", cfg, "--json")
	require.NoError(t, err)

	var rows []historyRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "check_out", rows[0].Kind)
	assert.Equal(t, "Checked out successfully.", rows[0].Status)
	assert.Equal(t, "check_in", rows[1].Kind)

	out, err = execute(t, "history", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "WHEN")
	assert.Contains(t, out, "Checked in successfully.")
}

func TestHistoryInMemory(t *testing.T) {
	cfg := writeTestConfig(t, "https://hr.example.com", ":memory:")

	out, err := execute(t, "history", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Journal is in memory")
}
