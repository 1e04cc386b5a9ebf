package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllCategoriesLog tests that all categories create log files when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(dir, Options{DebugMode: true, Level: "debug"}))
	t.Cleanup(CloseAll)

	assert.True(t, IsDebugMode())

	for _, cat := range AllCategories {
		require.True(t, IsCategoryEnabled(cat), "category %s should be enabled", cat)
		l := Get(cat)
		l.Info("info for %s", cat)
		l.Debug("debug for %s", cat)
		l.Warn("warn for %s", cat)
		l.Error("error for %s", cat)
	}

	API("convenience api log")
	PollDebug("convenience poll log")
	Store("convenience store log")

	CloseAll()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, cat := range AllCategories {
		found := false
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), "_"+string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
				require.NoError(t, err)
				assert.Contains(t, string(content), "for "+string(cat))
			}
		}
		assert.True(t, found, "no log file for category %s", cat)
	}
}

// TestDebugModeDisabled tests that no logs are created when debug_mode is false
func TestDebugModeDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(dir, Options{DebugMode: false}))
	t.Cleanup(CloseAll)

	Get(CategoryAPI).Info("should not be written")
	API("nor this")

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "logs dir should not exist in production mode")
	assert.False(t, IsCategoryEnabled(CategoryAPI))
}

func TestCategoryFilter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(dir, Options{
		DebugMode:  true,
		Categories: map[string]bool{"poll": false},
	}))
	t.Cleanup(CloseAll)

	assert.False(t, IsCategoryEnabled(CategoryPoll))
	assert.True(t, IsCategoryEnabled(CategoryAPI), "unlisted categories default to enabled")

	PollDebug("filtered")
	CloseAll()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "_poll.log")
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(dir, Options{DebugMode: true, Level: "warn"}))
	t.Cleanup(CloseAll)

	l := Get(CategoryChat)
	l.Info("quiet info")
	l.Warn("loud warn")
	CloseAll()

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+"_chat.log")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "quiet info")
	assert.Contains(t, string(content), "loud warn")
}

func TestJSONFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(dir, Options{DebugMode: true, JSONFormat: true}))
	t.Cleanup(CloseAll)

	Get(CategoryStore).With("key", "token").Info("saved")
	CloseAll()

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+"_store.log")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"saved"`)
	assert.Contains(t, string(content), `"key":"token"`)
}

func TestInitializeRequiresDir(t *testing.T) {
	assert.Error(t, Initialize("", Options{}))
}

func TestTimerThreshold(t *testing.T) {
	timer := StartTimer(CategoryAPI, "op")
	elapsed := timer.StopWithThreshold(time.Hour)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
}
