/*
 * @Description: Redis 클라이언트 초기화
 * @Author: memorymap
 * @Date: 2026-04-21 11:48:19
 * @LastEditTime: 2026-05-22 13:30:04
 * @LastEditors: memorymap
 */
package database

import (
	"context"
	"log"

	"github.com/memorymap/memorymap-app/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns nil without error when Redis is not configured or unreachable,
// so callers can fall back to the in-memory cache.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redisAddr := cfg.GetString(config.KeyRedisAddr)
	if redisAddr == "" {
		log.Println("⚠️  Redis address not configured, using in-memory cache")
		return nil, nil
	}
	redisDB := cfg.GetInt(config.KeyRedisDB)

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.GetString(config.KeyRedisPassword),
		DB:       redisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis (%s, DB %d) unreachable: %v, using in-memory cache", redisAddr, redisDB, err)
		rdb.Close()
		return nil, nil
	}

	log.Printf("✅ Connected to Redis (%s, DB %d)", redisAddr, redisDB)
	return rdb, nil
}
