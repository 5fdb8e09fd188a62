package usecase

import (
	"context"
	"fmt"

	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"
)

// ProcessLinksUseCase по очереди открывает каждое объявление и собирает записи
type ProcessLinksUseCase struct {
	detailsFetcher port.HicentralFetcherPort
	delay          port.DelayPort
	settings       domain.CrawlSettings
}

// NewProcessLinksUseCase создает новый экземпляр use case.
func NewProcessLinksUseCase(
	fetcher port.HicentralFetcherPort,
	delay port.DelayPort,
	settings domain.CrawlSettings,
) *ProcessLinksUseCase {
	return &ProcessLinksUseCase{
		detailsFetcher: fetcher,
		delay:          delay,
		settings:       settings,
	}
}

// Execute возвращает записи в порядке ссылок. Первая же ошибка прерывает обработку.
func (uc *ProcessLinksUseCase) Execute(ctx context.Context, links []domain.PropertyLink) ([]domain.ListingRecord, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{"use_case": "ProcessLinks"})

	listings := make([]domain.ListingRecord, 0, len(links))

	for i, link := range links {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		waited, err := uc.delay.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("use case: waiting before listing %s: %w", link.URL, err)
		}
		ucLogger.Info("Waited before request", port.Fields{"delay": waited.String()})

		ucLogger.Info("Parsing listing", port.Fields{"url": link.URL, "n": i + 1, "total": len(links)})

		record, err := uc.detailsFetcher.FetchListing(ctx, link.URL)
		if err != nil {
			ucLogger.Error("Failed to parse listing", err, port.Fields{"url": link.URL})
			return nil, fmt.Errorf("failed to fetch/parse listing %s: %w", link.URL, err)
		}
		listings = append(listings, *record)

		ucLogger.Debug("Successfully parsed listing", port.Fields{"url": link.URL, "address": record.Address})

		if uc.settings.Limited {
			ucLogger.Info("Limited mode is on. Stopping after the first listing.", nil)
			break
		}
	}

	return listings, nil
}
