package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment  string
	Server       ServerConfig
	Database     DatabaseConfig
	NATS         NATSConfig
	Analysis     AnalysisConfig
	Member       MemberConfig
	Scraper      ScraperConfig
	TextAnalysis TextAnalysisConfig
	Twitter      TwitterConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// AnalysisConfig holds trend analysis configuration
type AnalysisConfig struct {
	Language          string
	MinFrequency      int
	MinScore          float64
	GrowthWeight      float64
	VolumeWeight      float64
	TopN              int
	FetchLimit        int
	ContextBudget     int
	EnrichConcurrency int
	EventsTopic       string
	ScanInterval      time.Duration
	ScheduledTenants  string
}

// MemberConfig holds member activity scoring configuration
type MemberConfig struct {
	MinScore   int
	MaxResults int
}

// ScraperConfig holds chat-scraper sidecar configuration
type ScraperConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// TextAnalysisConfig holds text-analysis service configuration
type TextAnalysisConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// TwitterConfig holds the mention source configuration
type TwitterConfig struct {
	BearerToken string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "leadscout"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Analysis: AnalysisConfig{
			Language:          getEnv("ANALYSIS_LANGUAGE", "russian"),
			MinFrequency:      getEnvAsInt("ANALYSIS_MIN_FREQUENCY", 5),
			MinScore:          getEnvAsFloat("ANALYSIS_MIN_SCORE", 10),
			GrowthWeight:      getEnvAsFloat("ANALYSIS_GROWTH_WEIGHT", 0.7),
			VolumeWeight:      getEnvAsFloat("ANALYSIS_VOLUME_WEIGHT", 0.3),
			TopN:              getEnvAsInt("ANALYSIS_TOP_N", 10),
			FetchLimit:        getEnvAsInt("ANALYSIS_FETCH_LIMIT", 100),
			ContextBudget:     getEnvAsInt("ANALYSIS_CONTEXT_BUDGET", 3000),
			EnrichConcurrency: getEnvAsInt("ANALYSIS_ENRICH_CONCURRENCY", 4),
			EventsTopic:       getEnv("ANALYSIS_EVENTS_TOPIC", "trend"),
			ScanInterval:      getEnvAsDuration("ANALYSIS_SCAN_INTERVAL", 0),
			ScheduledTenants:  getEnv("ANALYSIS_SCHEDULED_TENANTS", ""),
		},
		Member: MemberConfig{
			MinScore:   getEnvAsInt("MEMBER_MIN_SCORE", 40),
			MaxResults: getEnvAsInt("MEMBER_MAX_RESULTS", 100),
		},
		Scraper: ScraperConfig{
			BaseURL: getEnv("SCRAPER_BASE_URL", ""),
			Token:   getEnv("SCRAPER_TOKEN", ""),
			Timeout: getEnvAsDuration("SCRAPER_TIMEOUT", 30*time.Second),
		},
		TextAnalysis: TextAnalysisConfig{
			BaseURL: getEnv("TEXT_ANALYSIS_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  getEnv("TEXT_ANALYSIS_API_KEY", ""),
			Model:   getEnv("TEXT_ANALYSIS_MODEL", "llama-3.1-8b-instant"),
			Timeout: getEnvAsDuration("TEXT_ANALYSIS_TIMEOUT", 30*time.Second),
		},
		Twitter: TwitterConfig{
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		},
	}

	return config, validate(config)
}

// ScheduleEntries parses the ANALYSIS_SCHEDULED_TENANTS value, a
// comma-separated list of "tenantID=group1;group2" pairs.
func (c AnalysisConfig) ScheduleEntries() (map[int64][]string, error) {
	entries := make(map[int64][]string)
	if c.ScheduledTenants == "" {
		return entries, nil
	}
	for _, pair := range strings.Split(c.ScheduledTenants, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid schedule entry %q", pair)
		}
		tenantID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid tenant id in schedule entry %q", pair)
		}
		var groups []string
		for _, g := range strings.Split(parts[1], ";") {
			if g = strings.TrimSpace(g); g != "" {
				groups = append(groups, g)
			}
		}
		if len(groups) == 0 {
			return nil, fmt.Errorf("schedule entry %q has no groups", pair)
		}
		entries[tenantID] = groups
	}
	return entries, nil
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Analysis.TopN <= 0 {
		return fmt.Errorf("analysis top-N must be positive")
	}
	if config.Analysis.GrowthWeight < 0 || config.Analysis.VolumeWeight < 0 {
		return fmt.Errorf("analysis score weights must be non-negative")
	}
	if config.Analysis.ScanInterval > 0 && config.Scraper.BaseURL == "" {
		return fmt.Errorf("scheduled analysis requires a scraper base URL")
	}
	if _, err := config.Analysis.ScheduleEntries(); err != nil {
		return err
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
