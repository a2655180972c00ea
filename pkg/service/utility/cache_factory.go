/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-04-23 00:20:58
 * @LastEditTime: 2026-05-09 17:52:52
 * @LastEditors: memorymap
 */
package utility

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// NewCacheServiceWithFallback uses Redis when the client is reachable, else memory.
func NewCacheServiceWithFallback(redisClient *redis.Client) CacheService {
	if redisClient == nil {
		log.Println("🔄 Using in-memory cache")
		return NewMemoryCacheService()
	}
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️  Redis unavailable: %v, falling back to in-memory cache", err)
		return NewMemoryCacheService()
	}
	log.Println("✅ Using Redis cache")
	return NewCacheService(redisClient)
}

type CacheServiceType string

const (
	CacheTypeRedis  CacheServiceType = "redis"
	CacheTypeMemory CacheServiceType = "memory"
)

// GetCacheServiceType is logged at startup.
func GetCacheServiceType(svc CacheService) CacheServiceType {
	if _, ok := svc.(*redisCacheService); ok {
		return CacheTypeRedis
	}
	return CacheTypeMemory
}

// StopCache releases background resources of the memory cache.
func StopCache(svc CacheService) {
	if m, ok := svc.(*memoryCacheService); ok {
		m.Stop()
	}
}
