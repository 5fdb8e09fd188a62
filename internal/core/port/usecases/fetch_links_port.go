package usecases_port

import (
	"context"
	"hicentral-parser-service/internal/core/domain"
)

type FetchLinksPort interface {
	Execute(ctx context.Context, startURL string) (*domain.LinksBatch, error)
}
