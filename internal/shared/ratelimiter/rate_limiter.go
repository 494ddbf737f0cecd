package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiterは、API呼び出しなどの操作の頻度を制限します。複数のゴルーチンから利用できます。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // interval あたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Waitはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// 待機中にctxがキャンセルされた場合はctxのエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	sleep := rl.reserve()
	if sleep <= 0 {
		return nil
	}

	slog.Warn("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// reserveは呼び出しを1回分カウントし、待機すべき時間を返します。
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	// 上限に達したウィンドウは次のウィンドウへ繰り越す
	if rl.count >= rl.limit {
		rl.lastReset = rl.lastReset.Add(rl.interval)
		rl.count = 0
	}
	rl.count++

	if wait := rl.lastReset.Sub(now); wait > 0 {
		return wait
	}
	return 0
}
