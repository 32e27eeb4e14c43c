package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	for _, key := range []string{"SERVER_HOST", "PORT", "SERVER_PORT", "SERVE_ROOT", "OPEN_BROWSER"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ".", cfg.Static.Root)
	assert.True(t, cfg.Browser.Open)
	assert.Positive(t, cfg.Server.ReadTimeout)
	// WriteTimeout は 0（無効）でも正常
	assert.GreaterOrEqual(t, cfg.Server.WriteTimeout, time.Duration(0))
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(file, []byte("<h1>hi</h1>"), 0o644))

	testCases := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{"正常な設定", func(c *Config) {}, false},
		{"エフェメラルポート", func(c *Config) { c.Server.Port = 0 }, false},
		{"無効なポート番号", func(c *Config) { c.Server.Port = 99999 }, true},
		{"負のポート番号", func(c *Config) { c.Server.Port = -1 }, true},
		{"ホストなし", func(c *Config) { c.Server.Host = "" }, true},
		{"ルートなし", func(c *Config) { c.Static.Root = "" }, true},
		{"存在しないルート", func(c *Config) { c.Static.Root = filepath.Join(dir, "missing") }, true},
		{"ルートがファイル", func(c *Config) { c.Static.Root = file }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Static.Root = dir
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestServerAddress はサーバーアドレスの生成をテストする
func TestServerAddress(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "192.168.1.100",
			Port: 9090,
		},
	}

	assert.Equal(t, "192.168.1.100:9090", cfg.ServerAddress())
	assert.Equal(t, "http://192.168.1.100:9090", cfg.URL())

	cfg.Server.Host = "::1"
	assert.Equal(t, "[::1]:9090", cfg.ServerAddress())
}

func TestAbsRoot(t *testing.T) {
	dir := t.TempDir()
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(dir, link))

	cfg := Default()
	cfg.Static.Root = link

	got, err := cfg.AbsRoot()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestEnvironmentVariables は環境変数の処理をテストする
func TestEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("SERVER_HOST", "test.example.com")
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("SERVE_ROOT", dir)
	t.Setenv("OPEN_BROWSER", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test.example.com", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, dir, cfg.Static.Root)
	assert.False(t, cfg.Browser.Open)
}

func TestEnvironmentVariablesInvalidPort(t *testing.T) {
	t.Setenv("SERVER_HOST", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SERVE_ROOT", "")
	t.Setenv("PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}
