package hicentralfetcher

import (
	"context"
	"fmt"

	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// FetchListing загружает страницу объявления и извлекает адрес, цену,
// тип недвижимости и дату размещения
func (a *HicentralFetcherAdapter) FetchListing(ctx context.Context, listingURL string) (*domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchDetailsLogger := logger.WithFields(port.Fields{"component": "HicentralFetcherAdapter(FetchListing)"})

	collector := a.collector.Clone()

	var record *domain.ListingRecord
	var criticalError error

	collector.OnRequest(func(r *colly.Request) {
		fetchDetailsLogger.Debug("Making request to fetch listing", port.Fields{"url": r.URL.String()})
	})

	parseAnyBody(collector, fetchDetailsLogger)

	// "html" всегда есть в дереве после разбора, так что колбэк вызывается ровно один раз
	collector.OnHTML("html", func(e *colly.HTMLElement) {
		if criticalError != nil || record != nil {
			return
		}
		rec, err := toListingRecord(e.DOM, listingURL)
		if err != nil {
			fetchDetailsLogger.Error("Failed to map page to listing record", err, port.Fields{"url": listingURL})
			criticalError = fmt.Errorf("FetchListing: %w", err)
			return
		}
		record = rec
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchDetailsLogger.Error("Failed to fetch listing", err, port.Fields{"url": r.Request.URL.String()})
		criticalError = fmt.Errorf("FetchListing: request to %s failed: %w", listingURL, err)
	})

	if visitErr := collector.Visit(listingURL); visitErr != nil && criticalError == nil {
		fetchDetailsLogger.Error("Failed to initiate visit for listing", visitErr, port.Fields{"url": listingURL})
		return nil, fmt.Errorf("FetchListing: failed to visit URL %s: %w", listingURL, visitErr)
	}
	collector.Wait()

	if criticalError != nil {
		return nil, criticalError
	}
	if record == nil {
		return nil, fmt.Errorf("FetchListing: %s: %w", listingURL, ErrNoDocument)
	}

	return record, nil
}
