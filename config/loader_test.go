package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idgenSection struct {
	NodeID uint32 `mapstructure:"node_id"`
	Epoch  uint64 `mapstructure:"epoch"`
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "superflake.yaml"), `
idgen:
  node_id: 3
  epoch: 1616275800000
log:
  level: info
`)
	writeFile(t, filepath.Join(dir, "superflake.prod.yaml"), `
log:
  level: warn
`)
	writeFile(t, filepath.Join(dir, ".env"), "SFTEST_LOG_FORMAT=json\n")

	t.Setenv("SFTEST_ENV", "prod")
	t.Setenv("SFTEST_IDGEN_NODE_ID", "42")
	t.Cleanup(func() { os.Unsetenv("SFTEST_LOG_FORMAT") })

	loader, err := New(&Config{Name: "superflake", Paths: []string{dir}, EnvPrefix: "sftest"})
	require.NoError(t, err)
	loader.SetDefault("log.format", "console")
	require.NoError(t, loader.Load(context.Background()))

	// 环境变量覆盖文件
	var section idgenSection
	require.NoError(t, loader.UnmarshalKey("idgen", &section))
	assert.EqualValues(t, 42, section.NodeID)
	assert.EqualValues(t, 1616275800000, section.Epoch)

	// 环境特定配置覆盖基础配置
	assert.Equal(t, "warn", loader.Get("log.level"))

	// .env 覆盖默认值
	assert.Equal(t, "json", loader.Get("log.format"))
}

func TestLoader_NoFile(t *testing.T) {
	dir := t.TempDir()

	loader, err := New(&Config{Name: "absent", Paths: []string{dir}, EnvPrefix: "sfnofile"})
	require.NoError(t, err)
	err = loader.Load(context.Background())
	require.Error(t, err)
	assert.True(t, IsValidationFailed(err))

	loader, err = New(&Config{Name: "absent", Paths: []string{dir}, EnvPrefix: "sfnofile"})
	require.NoError(t, err)
	loader.SetDefault("idgen.node_id", 1)
	require.NoError(t, loader.Load(context.Background()))
	assert.Equal(t, 1, loader.Get("idgen.node_id"))
}

func TestLoader_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "idgen: [unclosed")

	loader, err := New(&Config{Paths: []string{dir}, EnvPrefix: "sfinvalid"})
	require.NoError(t, err)
	assert.Error(t, loader.Load(context.Background()))
}

func TestLoader_Watch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	writeFile(t, file, "log:\n  level: info\n")

	loader, err := New(&Config{Paths: []string{dir}, EnvPrefix: "sfwatch"})
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	_, err = loader.Watch(context.Background(), "")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := loader.Watch(ctx, "log.level")
	require.NoError(t, err)

	// 等待 fsnotify watcher 就绪
	time.Sleep(100 * time.Millisecond)
	writeFile(t, file, "log:\n  level: debug\n")

	select {
	case ev := <-ch:
		assert.Equal(t, "log.level", ev.Key)
		assert.Equal(t, "debug", ev.Value)
		assert.Equal(t, "info", ev.OldValue)
		assert.Equal(t, "file", ev.Source)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for config change event")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
