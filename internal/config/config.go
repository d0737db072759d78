package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	applog "devicecover/internal/log"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	LogLevel     string
	TemplatesDir string

	RedisAddr     string
	QuoteCacheTTL int // seconds

	KafkaBrokers    []string
	KafkaQuoteTopic string

	AdminTokenHash string
	RateLimit      int // requests per minute per IP
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the environment, seeded from ./.env when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:            getenv("PORT", "8080"),
		DBDSN:           getenv("DB_DSN", "devicecover.db"), // sqlite file in working dir
		LogFile:         getenv("LOG_FILE", "./devicecover.log"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		TemplatesDir:    getenv("TEMPLATES_DIR", "./web/templates"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		QuoteCacheTTL:   getenvInt("QUOTE_CACHE_TTL_SECONDS", 3600),
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaQuoteTopic: getenv("KAFKA_QUOTE_TOPIC", "quotes.issued"),
		AdminTokenHash:  getenv("ADMIN_TOKEN_HASH", ""),
		RateLimit:       getenvInt("RATE_LIMIT_PER_MINUTE", 60),
	}
	cfg.Log()
	return cfg
}

// Log prints the resolved settings. The admin hash itself is never printed.
func (c Config) Log() {
	applog.L().Info("config.loaded",
		zap.String("port", c.Port),
		zap.String("db_dsn", c.DBDSN),
		zap.String("log_file", c.LogFile),
		zap.String("log_level", c.LogLevel),
		zap.String("templates_dir", c.TemplatesDir),
		zap.String("redis_addr", c.RedisAddr),
		zap.Int("quote_cache_ttl_s", c.QuoteCacheTTL),
		zap.Strings("kafka_brokers", c.KafkaBrokers),
		zap.String("kafka_quote_topic", c.KafkaQuoteTopic),
		zap.Bool("admin_enabled", c.AdminTokenHash != ""),
		zap.Int("rate_limit_per_minute", c.RateLimit),
	)
}
