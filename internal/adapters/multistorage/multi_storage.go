package multistorage

import (
	"context"
	"fmt"

	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"

	"github.com/google/uuid"
)

// NamedStorage - хранилище с именем для логов и ошибок
type NamedStorage struct {
	Name    string
	Storage port.ListingsStoragePort
}

// MultiStorageAdapter передает пачку во все хранилища по очереди.
// Первая ошибка останавливает оставшиеся.
type MultiStorageAdapter struct {
	storages []NamedStorage
}

// NewMultiStorageAdapter - конструктор. Нужно хотя бы одно хранилище.
func NewMultiStorageAdapter(storages ...NamedStorage) (*MultiStorageAdapter, error) {
	if len(storages) == 0 {
		return nil, fmt.Errorf("multistorage: at least one storage is required")
	}
	for i, s := range storages {
		if s.Storage == nil {
			return nil, fmt.Errorf("multistorage: storage #%d (%s) is nil", i, s.Name)
		}
	}
	return &MultiStorageAdapter{storages: storages}, nil
}

func (m *MultiStorageAdapter) SaveAll(ctx context.Context, runID uuid.UUID, listings []domain.ListingRecord) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "MultiStorageAdapter"})

	for _, s := range m.storages {
		if err := s.Storage.SaveAll(ctx, runID, listings); err != nil {
			logger.Error("Storage failed, skipping the rest", err, port.Fields{"storage": s.Name})
			return fmt.Errorf("storage %s: %w", s.Name, err)
		}
		logger.Debug("Storage done", port.Fields{"storage": s.Name})
	}
	return nil
}
