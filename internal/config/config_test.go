package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplab/shotform/internal/monitoring"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ideal.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"elbow_angle_min": 155.0}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 155.0, cfg.GetElbowAngleMin(), "configured field")
	assert.Equal(t, DefaultElbowAngleMax, cfg.GetElbowAngleMax(), "omitted field keeps default")
	assert.Equal(t, DefaultKneeAngleMax, cfg.GetKneeAngleMax())
}

func TestLoadRejectsBadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "inverted range", body: `{"knee_angle_min": 140.0, "knee_angle_max": 120.0}`},
		{name: "non-positive bound", body: `{"wrist_angle_min": -5.0}`},
		{name: "malformed json", body: `{`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}

	t.Run("non-json extension", func(t *testing.T) {
		_, err := Load("ideal.yaml")
		assert.Error(t, err)
	})
}

// TestLoadOrDefaultNeverFails verifies configuration absence falls back to
// built-in defaults with a warning instead of failing.
func TestLoadOrDefaultNeverFails(t *testing.T) {
	warned := false
	monitoring.SetLogger(func(format string, v ...interface{}) { warned = true })
	defer monitoring.SetLogger(nil)

	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	require.NotNil(t, cfg)
	assert.True(t, warned, "fallback should be logged")
	assert.Equal(t, DefaultKneeAngleMin, cfg.GetKneeAngleMin())
	assert.Empty(t, cfg.GetRemedy("elbow_flare"), "no override configured")
}

func TestRemedyOverride(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"remedies": {"elbow_flare": "custom tip"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom tip", cfg.GetRemedy("elbow_flare"))
	assert.Empty(t, cfg.GetRemedy("poor_wrist_snap"))
}

func TestMustLoadDefault(t *testing.T) {
	t.Parallel()

	cfg := MustLoadDefault()
	assert.Equal(t, 160.0, cfg.GetElbowAngleMin())
	assert.NotEmpty(t, cfg.GetRemedy("elbow_flare"))
}

func TestDefaultDetectorFlags(t *testing.T) {
	t.Parallel()

	flags := DefaultDetectorFlags()
	assert.False(t, flags.ShoulderAlignment, "experimental detector ships disabled")
	assert.True(t, flags.AdvancedFluidity)
}
