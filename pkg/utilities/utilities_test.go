package utilities

import (
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestIDGeneratorUnique(t *testing.T) {
	g := NewIDGenerator(3)
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := g.NewID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIDGeneratorFallsBackToKSUID(t *testing.T) {
	g := NewIDGenerator(5000)
	_, err := ksuid.Parse(g.NewID())
	assert.NoError(t, err)
}

func TestNodeFromEnv(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE", "")
	assert.Equal(t, int64(1), NodeFromEnv())

	t.Setenv("SNOWFLAKE_NODE", "42")
	assert.Equal(t, int64(42), NodeFromEnv())

	t.Setenv("SNOWFLAKE_NODE", "abc")
	assert.Equal(t, int64(1), NodeFromEnv())
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, levelFromString("debug"))
	assert.Equal(t, zapcore.WarnLevel, levelFromString("warning"))
	assert.Equal(t, zapcore.InfoLevel, levelFromString("nonsense"))
}

func TestInitWithFile(t *testing.T) {
	cfg := Config{Level: "debug", File: filepath.Join(t.TempDir(), "app.log")}
	lg, err := Init(cfg)
	require.NoError(t, err)
	lg.Info("hello")
	_ = lg.Sync()
}
