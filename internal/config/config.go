package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	DialogLog DialogLogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	dialogLog, err := loadDialogLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Catalog:   loadCatalogConfig(),
		DialogLog: dialogLog,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// CatalogConfig 描述问题目录的来源。Path 为空时使用内置目录。
type CatalogConfig struct {
	Path string
}

func loadCatalogConfig() CatalogConfig {
	return CatalogConfig{Path: strings.TrimSpace(os.Getenv("QUESTIONARY_PATH"))}
}

// DialogLogConfig 描述对话生命周期日志的存储。QueueSize 为 0 时同步写入。
type DialogLogConfig struct {
	Enabled   bool
	Path      string
	QueueSize int
}

// Synchronous 表示日志直接写入存储，不经过异步队列。
func (c DialogLogConfig) Synchronous() bool {
	return c.QueueSize == 0
}

func loadDialogLogConfig() (DialogLogConfig, error) {
	enabled, err := parseBoolEnv("DIALOG_LOG_ENABLED", true)
	if err != nil {
		return DialogLogConfig{}, err
	}

	queueSize := 256
	if override, err := parseOptionalIntEnv("DIALOG_LOG_QUEUE"); err != nil {
		return DialogLogConfig{}, err
	} else if override != nil {
		if *override < 0 {
			return DialogLogConfig{}, fmt.Errorf("invalid DIALOG_LOG_QUEUE value %d: must not be negative", *override)
		}
		queueSize = *override
	}

	path := getEnvOrDefault("DIALOG_LOG_PATH", "data/dialogs.db")

	return DialogLogConfig{
		Enabled:   enabled && path != "",
		Path:      path,
		QueueSize: queueSize,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
