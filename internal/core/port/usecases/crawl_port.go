package usecases_port

import (
	"context"
	"hicentral-parser-service/internal/core/domain"
)

// CrawlPort - полный прогон: обход страниц, разбор объявлений, сохранение
type CrawlPort interface {
	Execute(ctx context.Context) (*domain.CrawlReport, error)
}
