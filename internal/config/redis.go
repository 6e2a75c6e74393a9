package config

import (
	"context"
	"time"

	"carpool/internal/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ConnectRedis returns a client for addr, or nil when addr is empty or unreachable.
// Callers treat a nil client as "no cache".
func ConnectRedis(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		utils.Logger().Warn("redis unavailable, geocode cache disabled", zap.String("addr", addr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	utils.Logger().Info("connected to Redis", zap.String("addr", addr))
	return rdb
}
