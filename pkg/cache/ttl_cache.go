// Package cache — Generic in-memory TTL cache.
//
// Stripe webhook event ID'lerini 24 saat boyunca hatırlamak için kullanılır:
// Stripe aynı event'i birden fazla kez teslim edebilir, işlenmiş bir ID
// tekrar geldiğinde işlem yapılmadan 200 dönülür.
//
// sync.RWMutex ile korunur. Süresi dolan kayıtlar Get'te görünmez,
// map'ten fiziksel silme arka plan goroutine'inde yapılır.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, generic in-memory TTL cache.
//
//	seen := cache.New[string, struct{}](24*time.Hour, time.Hour)
//	if !seen.SetIfAbsent(event.ID, struct{}{}) { return } // duplicate
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration

	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// New, yeni bir TTLCache oluşturur ve periyodik temizleme goroutine'ini başlatır.
// cleanupInterval < ttl olmalıdır.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get, key varsa ve süresi dolmamışsa (value, true) döner.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, cache'e bir değer yazar (TTL ile).
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// SetIfAbsent, key yoksa (veya süresi dolmuşsa) yazar ve true döner.
// Key zaten canlıysa hiçbir şey yapmaz ve false döner. Kontrol ve yazma
// aynı lock altında yapılır; eşzamanlı iki teslimattan sadece biri true alır.
func (c *TTLCache[K, V]) SetIfAbsent(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if e, ok := c.entries[key]; ok && !now.After(e.expiresAt) {
		return false
	}
	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl)}
	return true
}

// Delete, key'i siler. Webhook işlemesi başarısız olduğunda ID'yi
// unutmak için kullanılır; Stripe'ın tekrar denemesi işlenir.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len, cache'teki toplam entry sayısını döner (süresi dolmuşlar dahil).
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, temizleme goroutine'ini durdurur. Birden fazla çağrılabilir.
func (c *TTLCache[K, V]) Close() {
	c.closeOnce.Do(func() { close(c.stopCleanup) })
}

func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
