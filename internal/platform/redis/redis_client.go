package redis

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
)

// Config はRedis接続設定です。Hostが空の場合、Redisは使用しません。
type Config struct {
	Host     string
	Port     string
	Password string
}

// LoadConfigFromEnv は環境変数からRedis設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     os.Getenv("REDIS_PORT"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	if cfg.Port == "" {
		cfg.Port = "6379"
	}
	return cfg
}

// Enabled はRedisが設定されているかどうかを返します。
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Addr は "host:port" 形式のアドレスを返します。
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// NewRedisClient は接続確認済みのRedisクライアントを生成します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	addr := cfg.Addr()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
