package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tenant   TenantConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port         string
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	OrderCreated        string
	OrderUpdated        string
	NotificationCreated string
}

type TenantConfig struct {
	// DefaultSlug is used when neither the path nor the host carries a tenant.
	DefaultSlug string
	// OrgCacheTTL bounds slug -> organization id entries in Redis.
	OrgCacheTTL time.Duration
}

type AuthConfig struct {
	OIDCIssuer string
	// Disabled skips token verification entirely. Local development only.
	Disabled bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8086"),
			BaseURL:      getEnv("BASE_URL", "http://localhost:8086"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:          getEnv("POSTGRES_DSN", ""),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_ADDR", "localhost:9092")},
			GroupID: getEnv("KAFKA_GROUP_ID", "dinein-service-group"),
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Topics: TopicConfig{
				OrderCreated:        getEnv("KAFKA_TOPIC_ORDER_CREATED", "dinein.orders.created"),
				OrderUpdated:        getEnv("KAFKA_TOPIC_ORDER_UPDATED", "dinein.orders.updated"),
				NotificationCreated: getEnv("KAFKA_TOPIC_NOTIFICATION_CREATED", "dinein.notifications.created"),
			},
		},
		Tenant: TenantConfig{
			DefaultSlug: getEnv("DEFAULT_TENANT", "skylightvillage"),
			OrgCacheTTL: time.Duration(getEnvInt("ORG_CACHE_TTL_MINUTES", 10)) * time.Minute,
		},
		Auth: AuthConfig{
			OIDCIssuer: getEnv("OIDC_ISSUER", ""),
			Disabled:   getEnvBool("AUTH_DISABLED", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
