package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/grassandaxe/booking-wizard/internal/config"
	"github.com/grassandaxe/booking-wizard/internal/draft"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

// Draft backends accepted in DRAFT_BACKEND.
const (
	DraftBackendMemory   = "memory"
	DraftBackendRedis    = "redis"
	DraftBackendDynamoDB = "dynamodb"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// NeedsAWS reports whether any configured backend talks to AWS.
func NeedsAWS(cfg *appconfig.Config) bool {
	if cfg == nil {
		return false
	}
	return cfg.DraftBackend == DraftBackendDynamoDB || cfg.EmailProvider == EmailProviderSES
}

// BuildDraftRepository selects the draft backend named by cfg.DraftBackend.
// awsCfg is only read for the dynamodb backend.
func BuildDraftRepository(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (draft.Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.DraftBackend {
	case "", DraftBackendMemory:
		logger.Info("draft store: in-memory", "ttl", cfg.DraftTTL.String())
		return draft.NewMemoryRepository(cfg.DraftTTL), nil
	case DraftBackendRedis:
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, fmt.Errorf("bootstrap: redis unavailable at %s", cfg.RedisAddr)
		}
		logger.Info("draft store: redis", "addr", cfg.RedisAddr, "ttl", cfg.DraftTTL.String())
		return draft.NewRedisRepository(client, cfg.DraftTTL, nil), nil
	case DraftBackendDynamoDB:
		if strings.TrimSpace(cfg.DraftTable) == "" {
			return nil, fmt.Errorf("bootstrap: DRAFT_TABLE is required for the dynamodb backend")
		}
		logger.Info("draft store: dynamodb", "table", cfg.DraftTable, "ttl", cfg.DraftTTL.String())
		return draft.NewDynamoRepository(dynamodb.NewFromConfig(awsCfg), cfg.DraftTable, cfg.DraftTTL, logger), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown draft backend %q", cfg.DraftBackend)
	}
}
