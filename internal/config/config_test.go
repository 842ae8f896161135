package config

import (
	"MatchTracker/internal/assert"
	"os"
	"path/filepath"
	"testing"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	t.Run("Empty Path", func(t *testing.T) {
		rules, err := LoadRules("")
		assert.NilError(t, err)
		assert.Equal(t, rules, DefaultRules())
	})

	t.Run("Partial File", func(t *testing.T) {
		path := writeRules(t, "half_length: 40\nrequire_goalkeeper: false\n")
		rules, err := LoadRules(path)
		assert.NilError(t, err)
		assert.Equal(t, rules.HalfLength, 40)
		assert.Equal(t, rules.RequireGoalkeeper, false)
		assert.Equal(t, rules.Starters, 11)
		assert.Equal(t, rules.CheckpointSeconds, 5)
	})

	t.Run("Invalid Values", func(t *testing.T) {
		path := writeRules(t, "starters: 15\n")
		_, err := LoadRules(path)
		assert.StringContains(t, err.Error(), "starters")
	})

	t.Run("Malformed", func(t *testing.T) {
		path := writeRules(t, "half_length: [\n")
		_, err := LoadRules(path)
		assert.StringContains(t, err.Error(), "failed to parse")
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.StringContains(t, err.Error(), "failed to read")
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TRACKER_TEST_PORT", "8080")
	t.Setenv("TRACKER_TEST_BAD", "eighty")

	assert.Equal(t, GetEnv("TRACKER_TEST_PORT", "4000"), "8080")
	assert.Equal(t, GetEnv("TRACKER_TEST_UNSET", "4000"), "4000")
	assert.Equal(t, GetEnvAsInt("TRACKER_TEST_PORT", 4000), 8080)
	assert.Equal(t, GetEnvAsInt("TRACKER_TEST_BAD", 4000), 4000)
}
