package usecases_port

import (
	"context"
	"hicentral-parser-service/internal/core/domain"
)

type ProcessLinksPort interface {
	Execute(ctx context.Context, links []domain.PropertyLink) ([]domain.ListingRecord, error)
}
