package port

import (
	"context"
	"hicentral-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

// ListingsStoragePort принимает всю пачку объявлений одного прогона
type ListingsStoragePort interface {
	SaveAll(ctx context.Context, runID uuid.UUID, listings []domain.ListingRecord) error
}
