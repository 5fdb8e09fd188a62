package delay

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RandomDelayAdapter ждет случайное время, равномерно распределенное в [min, max].
type RandomDelayAdapter struct {
	min    time.Duration
	max    time.Duration
	random func() float64 // [0.0, 1.0)
}

// NewRandomDelayAdapter - конструктор
func NewRandomDelayAdapter(min, max time.Duration) (*RandomDelayAdapter, error) {
	if min < 0 || max < 0 {
		return nil, fmt.Errorf("random delay: bounds must not be negative (min=%s, max=%s)", min, max)
	}
	if min > max {
		return nil, fmt.Errorf("random delay: min %s is greater than max %s", min, max)
	}
	return &RandomDelayAdapter{min: min, max: max, random: rand.Float64}, nil
}

// Next возвращает следующую паузу, не засыпая
func (a *RandomDelayAdapter) Next() time.Duration {
	spread := float64(a.max - a.min)
	return a.min + time.Duration(a.random()*spread)
}

// Wait засыпает на случайное время; отмена контекста прерывает ожидание
func (a *RandomDelayAdapter) Wait(ctx context.Context) (time.Duration, error) {
	d := a.Next()
	if err := sleep(ctx, d); err != nil {
		return 0, err
	}
	return d, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
