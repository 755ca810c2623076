package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchclock/internal/hrclient"
	"punchclock/internal/punchlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "punchclock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "form:\n  conreqcsr: tok\n")

	cfg, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, DefaultCheckInURL, cfg.CheckInURL)
	assert.Equal(t, DefaultCheckOutURL, cfg.CheckOutURL)
	assert.Equal(t, "multipart", cfg.Payload)
	assert.Equal(t, "tok", cfg.Form.Conreqcsr)
	assert.Equal(t, DefaultURLMode, cfg.Form.URLMode)
	assert.Empty(t, cfg.Form.Latitude)
	assert.Equal(t, DefaultReferer, cfg.Referer)
	assert.Equal(t, hrclient.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, punchlog.MemoryPath, cfg.JournalPath)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
checkin_url: https://hr.example.com/in
checkout_url: https://hr.example.com/out
payload: JSON
timeout: 3s
headers:
  Cookie: session=abc
form:
  latitude: "12.97"
  longitude: "77.59"
  accuracy: "20"
`)

	cfg, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "https://hr.example.com/in", cfg.CheckInURL)
	assert.Equal(t, "json", cfg.Payload)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "session=abc", cfg.Headers["cookie"])

	hc := cfg.HRClient()
	assert.Equal(t, hrclient.PayloadJSON, hc.Payload)
	assert.Equal(t, "20", hc.Form.Accuracy)
	assert.Equal(t, "myspace", hc.Form.URLMode)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PUNCHCLOCK_FORM_CONREQCSR", "from-env")
	t.Setenv("PUNCHCLOCK_CHECKOUT_URL", "https://hr.example.com/leave")
	path := writeConfig(t, "form:\n  conreqcsr: from-file\n")

	cfg, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Form.Conreqcsr)
	assert.Equal(t, "https://hr.example.com/leave", cfg.CheckOutURL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
	require.ErrorIs(t, Validate(&Config{}), errCheckInURLRequired)
	require.ErrorIs(t, Validate(&Config{CheckInURL: "https://a/in"}), errCheckOutURLMissing)

	err := Validate(&Config{CheckInURL: "not a url", CheckOutURL: "https://a/out"})
	require.Error(t, err)

	err = Validate(&Config{CheckInURL: "https://a/in", CheckOutURL: "https://a/out", Payload: "xml"})
	require.ErrorIs(t, err, errUnknownPayload)

	cfg := &Config{CheckInURL: "https://a/in", CheckOutURL: "https://a/out"}
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "multipart", cfg.Payload)
	assert.Equal(t, hrclient.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, punchlog.MemoryPath, cfg.JournalPath)
}
