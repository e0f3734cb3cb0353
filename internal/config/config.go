package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用运行配置，全部来自环境变量（可由 .env 提供）
type Config struct {
	Env           string
	Port          string
	SiteURL       string
	DatabaseURL   string
	SessionSecret string
	LogLevel      string

	GoogleClientID     string
	GoogleClientSecret string

	GeminiAPIKey   string
	AgentModel     string
	AgentWebSearch bool
	AgentMaxTurns  int
	AgentTimeout   time.Duration

	RSSFeeds []string

	TemplatesDir string
	ContentDir   string
	StaticDir    string
}

// Load 先加载 .env（不存在则忽略），再读取环境变量
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	maxTurns, err := strconv.Atoi(getEnv("AGENT_MAX_TURNS", "8"))
	if err != nil {
		return nil, fmt.Errorf("AGENT_MAX_TURNS: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("AGENT_TIMEOUT", "5m"))
	if err != nil {
		return nil, fmt.Errorf("AGENT_TIMEOUT: %w", err)
	}

	return &Config{
		Env:           getEnv("APP_ENV", "production"),
		Port:          getEnv("PORT", "8080"),
		SiteURL:       strings.TrimRight(getEnv("SITE_URL", "http://localhost:8080"), "/"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=trendforge port=5432 sslmode=disable"),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		AgentModel:     getEnv("AGENT_MODEL", ""),
		AgentWebSearch: getEnv("AGENT_WEB_SEARCH", "true") == "true",
		AgentMaxTurns:  maxTurns,
		AgentTimeout:   timeout,

		RSSFeeds: splitList(getEnv("RSS_FEEDS", defaultFeeds)),

		TemplatesDir: getEnv("TEMPLATES_DIR", "./web/templates"),
		ContentDir:   getEnv("CONTENT_DIR", "./web/content"),
		StaticDir:    getEnv("STATIC_DIR", "./web/static"),
	}, nil
}

// defaultFeeds 默认的资讯源，trendingHeadlines 工具从这里取标题
const defaultFeeds = "https://hnrss.org/frontpage,https://techcrunch.com/feed/,https://www.theverge.com/rss/index.xml"

// splitList 逗号分隔，去掉空白项
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDevelopment 是否为本地开发环境
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate 校验 serve 所需的关键配置
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.AgentMaxTurns < 1 {
		return fmt.Errorf("AGENT_MAX_TURNS must be at least 1")
	}
	if !c.IsDevelopment() && c.SessionSecret == "secret_key_change_me" {
		return fmt.Errorf("SESSION_SECRET must be set outside development")
	}
	return nil
}
