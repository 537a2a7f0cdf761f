// Package config loads the settings shared by the example programs.
// 加载示例程序共用的配置.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/bodrovis/lokalise-actions-common/v2/parsers"
	"go.yaml.in/yaml/v4"
)

// Config holds the settings shared by the example programs.
// 示例程序共用的配置.
type Config struct {
	Server         string `yaml:"server"`          // Seafile server address / 服务器地址
	Username       string `yaml:"username"`        // Login email / 登录邮箱
	TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-call timeout / 单次调用超时
	TokenCache     string `yaml:"token_cache"`     // Token cache file, empty disables it / 令牌缓存文件
	Library        string `yaml:"library"`         // Library id, empty uses the default library / 资料库 id
}

const defaultTimeoutSeconds = 30

// Timeout returns the configured per-call timeout. 返回单次调用超时.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig reads a YAML file (a missing file is fine) and applies environment overrides:
// SEAFILE_SERVER, SEAFILE_USERNAME, SEAFILE_LIBRARY, SEAFILE_TIMEOUT and SEAFILE_NO_CACHE.
// 读取 YAML 配置 (文件可不存在), 并应用环境变量覆盖.
func LoadConfig(path string) (Config, error) {
	cfg := Config{TimeoutSeconds: defaultTimeoutSeconds, TokenCache: ".seafile-tokens.db"}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return cfg, err
	}

	if v := os.Getenv("SEAFILE_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("SEAFILE_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("SEAFILE_LIBRARY"); v != "" {
		cfg.Library = v
	}
	cfg.TimeoutSeconds = parsers.ParseUintEnv("SEAFILE_TIMEOUT", cfg.TimeoutSeconds)

	noCache, err := parsers.ParseBoolEnv("SEAFILE_NO_CACHE")
	if err != nil {
		return cfg, err
	}
	if noCache {
		cfg.TokenCache = ""
	}

	if cfg.Server == "" {
		return cfg, errors.New("server is not configured")
	}
	if cfg.Username == "" {
		return cfg, errors.New("username is not configured")
	}
	return cfg, nil
}
