/*
 * @Description: Redis 캐시 서비스
 * @Author: memorymap
 * @Date: 2026-05-23 00:34:46
 * @LastEditTime: 2026-06-02 07:31:09
 * @LastEditors: memorymap
 */

// Package utility provides the cache used for geocoding results and the image list.
package utility

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService is a string key/value cache. Get returns "" with a nil error on a miss.
type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (s *redisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
