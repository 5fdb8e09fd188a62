package port

import (
	"context"
	"hicentral-parser-service/internal/core/domain"
)

// HicentralFetcherPort объединяет все операции с сайтом propertysearch.hicentral.com
type HicentralFetcherPort interface {
	// FetchLinks загружает одну страницу результатов и возвращает ссылки на объявления
	// в порядке документа и URL следующей страницы ("" если кнопки "next" нет).
	FetchLinks(ctx context.Context, pageURL string) (links []domain.PropertyLink, nextPageURL string, err error)

	// FetchListing загружает страницу объявления и извлекает из нее запись.
	FetchListing(ctx context.Context, listingURL string) (*domain.ListingRecord, error)
}
