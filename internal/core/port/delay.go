package port

import (
	"context"
	"time"
)

// DelayPort - стратегия ожидания перед каждым запросом к сайту.
// Wait блокируется и возвращает фактически выдержанную паузу.
type DelayPort interface {
	Wait(ctx context.Context) (time.Duration, error)
}
