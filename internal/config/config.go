package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server  ServerConfig
	Static  StaticConfig
	Browser BrowserConfig
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string // リッスンするホスト
	Port int    // リッスンするポート番号 (0 はエフェメラルポート)

	// タイムアウト設定
	ReadTimeout  time.Duration // 読み込みタイムアウト
	WriteTimeout time.Duration // 書き込みタイムアウト (0 は無効)
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	Root string // 配信するルートディレクトリ
}

// BrowserConfig は起動時のブラウザ自動オープンの設定
type BrowserConfig struct {
	Open bool
}

// Load は設定を読み込む
// デフォルト値を環境変数で上書きし、検証した結果を返す
func Load() (*Config, error) {
	cfg := Default()

	cfg.Server.Host = getEnvOrDefault("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsIntOrDefault("PORT", cfg.Server.Port)
	cfg.Server.Port = getEnvAsIntOrDefault("SERVER_PORT", cfg.Server.Port)
	cfg.Static.Root = getEnvOrDefault("SERVE_ROOT", cfg.Static.Root)
	cfg.Browser.Open = getEnvAsBoolOrDefault("OPEN_BROWSER", cfg.Browser.Open)

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Default は環境に依存しないデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "localhost",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0, // 大きなファイルの配信を途中で切らない
		},
		Static: StaticConfig{
			Root: ".",
		},
		Browser: BrowserConfig{
			Open: true,
		},
	}
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("ホストが指定されていません")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	if c.Static.Root == "" {
		return fmt.Errorf("ルートディレクトリが指定されていません")
	}
	info, err := os.Stat(c.Static.Root)
	if err != nil {
		return fmt.Errorf("ルートディレクトリを参照できません: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("ルートディレクトリではありません: %s", c.Static.Root)
	}

	return nil
}

// AbsRoot はシンボリックリンクを解決した絶対パスのルートディレクトリを返す
func (c *Config) AbsRoot() (string, error) {
	abs, err := filepath.Abs(c.Static.Root)
	if err != nil {
		return "", fmt.Errorf("ルートディレクトリの絶対パス化に失敗: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("ルートディレクトリのシンボリックリンク解決に失敗: %w", err)
	}
	return resolved, nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL はブラウザで開くサーバーのURLを返す
func (c *Config) URL() string {
	return "http://" + c.ServerAddress()
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
