package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything main needs to wire the service. Values come from
// the environment so deployment stays twelve-factor; FromEnv keeps main lean.
type Config struct {
	Addr string

	// AdminToken gates mutating operations via the static-token authorizer.
	AdminToken string

	// JWTSigningKey enables the JWT authorizer when set. Callers holding a
	// token with the admin role claim may mutate the registry.
	JWTSigningKey string

	// DatabaseURL selects the postgres store when set; otherwise the
	// in-memory store is used.
	DatabaseURL string

	Redis RedisConfig
	Kafka KafkaConfig

	// MaxTraitsPerCall bounds a single trait-addition batch.
	MaxTraitsPerCall int

	// CIDLength is the exact byte length a content identifier must have.
	// Defaults to 46, the length of a base58 CIDv0 ("Qm...").
	CIDLength int
}

// RedisConfig configures the optional current-CID cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit event sink.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

const (
	defaultAddr             = ":8080"
	defaultMaxTraitsPerCall = 200
	defaultCIDLength        = 46
	defaultAuditTopic       = "easel.audit"
)

// FromEnv builds a Config from environment variables, applying defaults for
// anything unset.
func FromEnv() Config {
	cfg := Config{
		Addr:          envOr("EASEL_ADDR", defaultAddr),
		AdminToken:    os.Getenv("EASEL_ADMIN_TOKEN"),
		JWTSigningKey: os.Getenv("EASEL_JWT_SIGNING_KEY"),
		DatabaseURL:   os.Getenv("EASEL_DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("EASEL_REDIS_URL"),
			PoolSize:     envInt("EASEL_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("EASEL_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("EASEL_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("EASEL_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("EASEL_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			AuditTopic: envOr("EASEL_KAFKA_AUDIT_TOPIC", defaultAuditTopic),
		},
		MaxTraitsPerCall: envInt("EASEL_MAX_TRAITS_PER_CALL", defaultMaxTraitsPerCall),
		CIDLength:        envInt("EASEL_CID_LENGTH", defaultCIDLength),
	}
	if brokers := os.Getenv("EASEL_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
