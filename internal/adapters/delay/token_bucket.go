package delay

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucketDelayAdapter ограничивает частоту запросов маркерной корзиной.
// Первые burst запросов проходят без ожидания.
type TokenBucketDelayAdapter struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewTokenBucketDelayAdapter - конструктор; ratePerSecond - средняя частота запросов
func NewTokenBucketDelayAdapter(ratePerSecond float64, burst int) (*TokenBucketDelayAdapter, error) {
	if ratePerSecond <= 0 {
		return nil, fmt.Errorf("token bucket: rate must be positive, got %v", ratePerSecond)
	}
	if burst < 1 {
		return nil, fmt.Errorf("token bucket: burst must be at least 1, got %d", burst)
	}
	return &TokenBucketDelayAdapter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		now:     time.Now,
	}, nil
}

// Wait ждет свободный маркер и возвращает время ожидания
func (a *TokenBucketDelayAdapter) Wait(ctx context.Context) (time.Duration, error) {
	start := a.now()
	if err := a.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("token bucket: %w", err)
	}
	return a.now().Sub(start), nil
}
