package config

import (
	"os"
	"strconv"
)

// RedisConfig Redis 配置（仪表盘状态的 KV 持久化存储）
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GeminiConfig 外部生成式 AI 端点配置
type GeminiConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// Config 患者仪表盘数据服务配置
type Config struct {
	Redis  RedisConfig
	Gemini GeminiConfig

	HTTP struct {
		Addr string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置（环境变量覆盖代码默认值）
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Gemini.BaseURL = getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", "")
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", "gemini-3-flash-preview")
	cfg.Gemini.TimeoutSeconds = getEnvInt("GEMINI_TIMEOUT", 30)

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8086")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
