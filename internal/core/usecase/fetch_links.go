package usecase

import (
	"context"
	"fmt"

	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"
)

// FetchLinksUseCase обходит страницы результатов и собирает ссылки на объявления
type FetchLinksUseCase struct {
	fetcher  port.HicentralFetcherPort
	delay    port.DelayPort
	settings domain.CrawlSettings
}

// NewFetchLinksUseCase создает новый экземпляр FetchLinksUseCase
func NewFetchLinksUseCase(
	fetcher port.HicentralFetcherPort,
	delay port.DelayPort,
	settings domain.CrawlSettings,
) *FetchLinksUseCase {
	return &FetchLinksUseCase{
		fetcher:  fetcher,
		delay:    delay,
		settings: settings,
	}
}

// Execute идет по кнопке "next", начиная со startURL. В ограниченном режиме
// обрабатывается только первая страница, даже если следующая есть.
func (uc *FetchLinksUseCase) Execute(ctx context.Context, startURL string) (*domain.LinksBatch, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{
		"use_case": "FetchLinks",
		"source":   domain.SourceHicentral,
	})

	if startURL == "" {
		return nil, fmt.Errorf("use case: start URL cannot be empty")
	}

	ucLogger.Info("Starting to fetch links", port.Fields{"start_url": startURL, "limited": uc.settings.Limited})

	batch := &domain.LinksBatch{}
	pageURL := startURL

	for page := 1; ; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		waited, err := uc.delay.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("use case: waiting before results page %d: %w", page, err)
		}
		ucLogger.Info("Waited before request", port.Fields{"delay": waited.String()})

		ucLogger.Info("Parsing results page", port.Fields{"page": page, "url": pageURL})

		links, nextURL, err := uc.fetcher.FetchLinks(ctx, pageURL)
		if err != nil {
			ucLogger.Error("Failed to fetch results page", err, port.Fields{"page": page, "url": pageURL})
			return nil, fmt.Errorf("use case: error fetching results page %d (%s): %w", page, pageURL, err)
		}
		batch.PagesVisited++

		for _, link := range links {
			link.Page = page
			batch.Links = append(batch.Links, link)
		}

		ucLogger.Debug("Links collected from page", port.Fields{
			"page":          page,
			"links_on_page": len(links),
			"links_total":   len(batch.Links),
		})

		if uc.settings.Limited {
			ucLogger.Info("Limited mode is on. Stopping after the first page.", nil)
			break
		}
		if nextURL == "" {
			ucLogger.Info("No next page. Pagination finished.", nil)
			break
		}
		pageURL = nextURL
	}

	ucLogger.Info("Finished fetching links", port.Fields{
		"links_total":   len(batch.Links),
		"pages_visited": batch.PagesVisited,
	})

	return batch, nil
}
