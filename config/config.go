package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ByLCY/sheetpress/layout"
)

// Config holds all application configuration.
type Config struct {
	ServerPort      string
	GinMode         string
	LogLevel        string
	LogFormat       string
	DatabaseURL     string // empty disables the worksheet-type store
	MaxDBConns      int32
	RedisURL        string // empty disables the preview cache
	PreviewCacheTTL time.Duration
	// AllowedOrigins controls HTTP CORS. Empty slice means all origins are permitted.
	AllowedOrigins []string

	// 页面余量，取值依赖打印样式，因此可配置。长度支持 "10", "10mm", "1cm", "28pt" 等写法。
	ReservedBottomMM float64
	RoundingBufferMM float64
	MinAvailableMM   float64
	GapMM            float64
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	def := layout.DefaultParams()
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "pretty"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MaxDBConns:       int32(getEnvInt("MAX_DB_CONNS", 8)),
		RedisURL:         getEnv("REDIS_URL", ""),
		PreviewCacheTTL:  time.Duration(getEnvInt("PREVIEW_CACHE_TTL_SECONDS", 600)) * time.Second,
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		ReservedBottomMM: getEnvLength("PAGE_RESERVED_BOTTOM_MM", def.ReservedBottomMM),
		RoundingBufferMM: getEnvLength("PAGE_ROUNDING_BUFFER_MM", def.RoundingBufferMM),
		MinAvailableMM:   getEnvLength("PAGE_MIN_AVAILABLE_MM", def.MinAvailableMM),
		GapMM:            getEnvLength("PAGE_GAP_MM", 4),
	}
}

// Params returns A4 page parameters with the configured safety margins.
func (c *Config) Params() layout.Params {
	p := layout.DefaultParams()
	p.ReservedBottomMM = c.ReservedBottomMM
	p.RoundingBufferMM = c.RoundingBufferMM
	p.MinAvailableMM = c.MinAvailableMM
	return p
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvLength 解析长度，无单位按 mm 处理；负数或无法解析时回退到默认值。
func getEnvLength(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	l, ok := layout.ParseLength(v)
	if !ok {
		return fallback
	}
	mm := l.ToMM()
	if mm < 0 {
		return fallback
	}
	return mm
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
