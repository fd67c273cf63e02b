package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"feed-ranking-service/internal/ranking"
)

type Config struct {
	AppPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPass     string
	DBName     string
	DBReplicas []string // optional read-replica DSNs

	KafkaBootstrap string
	KafkaGroupID   string
	PostsTopic     string
	SocialTopic    string

	FeedCacheTTL     time.Duration
	DefaultFeedLimit int

	Ranking ranking.Config
}

func LoadConfig() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", ":8085"),

		DBHost:     getEnv("FEED_DB_HOST", "localhost"),
		DBPort:     getEnv("FEED_DB_PORT", "5432"),
		DBUser:     getEnv("FEED_DB_USER", "postgres"),
		DBPass:     getEnv("FEED_DB_PASS", "postgres"),
		DBName:     getEnv("FEED_DB_NAME", "feed_db"),
		DBReplicas: splitList(os.Getenv("FEED_DB_REPLICAS")),

		KafkaBootstrap: getEnv("KAFKA_BOOTSTRAP_SERVERS", "kafka:9092"),
		KafkaGroupID:   getEnv("KAFKA_GROUP_ID", "feed-ranking-service"),
		PostsTopic:     getEnv("POSTS_TOPIC", "posts.events"),
		SocialTopic:    getEnv("SOCIAL_TOPIC", "social.events"),

		FeedCacheTTL:     getEnvDuration("FEED_CACHE_TTL", 5*time.Minute),
		DefaultFeedLimit: getEnvInt("FEED_DEFAULT_LIMIT", 100),

		Ranking: loadRanking(),
	}
}

// loadRanking starts from the model defaults and applies env overrides. An
// override set that breaks the weight-sum invariant is discarded wholesale by
// ranking.New, so a bad deploy degrades to default weights instead of
// skewed scores.
func loadRanking() ranking.Config {
	cfg := ranking.DefaultConfig()
	cfg.WeightRecency = getenvFloat("FEED_WEIGHT_RECENCY", cfg.WeightRecency)
	cfg.WeightEngagement = getenvFloat("FEED_WEIGHT_ENGAGEMENT", cfg.WeightEngagement)
	cfg.WeightRelationship = getenvFloat("FEED_WEIGHT_RELATIONSHIP", cfg.WeightRelationship)
	cfg.WeightContentType = getenvFloat("FEED_WEIGHT_CONTENT_TYPE", cfg.WeightContentType)
	cfg.DecayHours = getenvFloat("FEED_RECENCY_DECAY_HOURS", cfg.DecayHours)
	cfg.EngagementCap = getenvFloat("FEED_ENGAGEMENT_CAP", cfg.EngagementCap)
	return cfg
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getenvFloat(k string, def float64) float64 {
	if s := os.Getenv(k); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return def
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
