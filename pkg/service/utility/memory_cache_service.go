/*
 * @Description: 메모리 캐시 서비스
 * @Author: memorymap
 * @Date: 2026-03-10 17:36:03
 * @LastEditTime: 2026-05-08 23:30:36
 * @LastEditors: memorymap
 */
package utility

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type cacheItem struct {
	value      string
	expiration time.Time
	hasExpiry  bool
}

func (item *cacheItem) isExpired(now time.Time) bool {
	return item.hasExpiry && now.After(item.expiration)
}

// memoryCacheService is the fallback used when Redis is not configured.
type memoryCacheService struct {
	data     sync.Map
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewMemoryCacheService() CacheService {
	svc := &memoryCacheService{
		ticker: time.NewTicker(1 * time.Minute),
		done:   make(chan struct{}),
	}
	go svc.cleanupExpired()
	return svc
}

func (s *memoryCacheService) cleanupExpired() {
	for {
		select {
		case now := <-s.ticker.C:
			s.data.Range(func(key, value interface{}) bool {
				if item, ok := value.(*cacheItem); ok && item.isExpired(now) {
					s.data.Delete(key)
				}
				return true
			})
		case <-s.done:
			return
		}
	}
}

// Stop ends the cleanup goroutine.
func (s *memoryCacheService) Stop() {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}

func (s *memoryCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	item := &cacheItem{
		value:     fmt.Sprintf("%v", value),
		hasExpiry: expiration > 0,
	}
	if expiration > 0 {
		item.expiration = time.Now().Add(expiration)
	}
	s.data.Store(key, item)
	return nil
}

func (s *memoryCacheService) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.data.Load(key)
	if !ok {
		return "", nil
	}
	item, ok := value.(*cacheItem)
	if !ok {
		return "", nil
	}
	if item.isExpired(time.Now()) {
		s.data.Delete(key)
		return "", nil
	}
	return item.value, nil
}

func (s *memoryCacheService) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		s.data.Delete(key)
	}
	return nil
}
