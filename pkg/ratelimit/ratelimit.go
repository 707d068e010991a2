// Package ratelimit — LoginRateLimiter: brute-force saldırılarına karşı
// IP bazlı login rate limiting.
//
// Her IP için sabit bir pencere içinde deneme sayısı tutulur. Pencere
// içinde maxAttempts aşılırsa istek reddedilir; başarılı login sonrası
// Reset ile sayaç sıfırlanır. Süresi dolmuş bucket'lar arka planda temizlenir.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

type bucket struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter, IP bazlı login rate limiting.
//
//	limiter := NewLoginRateLimiter(5, 2*time.Minute)
//	if !limiter.Allow(ip) { return 429 }
//	limiter.Reset(ip) // başarılı login
type LoginRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// NewLoginRateLimiter, yeni rate limiter oluşturur ve temizleme goroutine'ini başlatır.
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow, IP'nin bu pencerede deneme hakkı olup olmadığını döner.
// Her çağrı sayacı artırır.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, başarılı login sonrası IP sayacını sıfırlar.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds, pencerenin bitmesine kalan süre (Retry-After header değeri).
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}

	remaining := rl.window - time.Since(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Close, temizleme goroutine'ini durdurur.
func (rl *LoginRateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *LoginRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *LoginRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// FormatRetryMessage, kalan süreyi okunabilir formata çevirir.
// Örn: 120 → "2 minute(s)", 45 → "45 second(s)"
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
