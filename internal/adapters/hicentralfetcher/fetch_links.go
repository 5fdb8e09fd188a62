package hicentralfetcher

import (
	"context"
	"fmt"

	"hicentral-parser-service/internal/constants"
	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// FetchLinks загружает страницу результатов и возвращает ссылки на объявления
// и адрес следующей страницы ("" если кнопки "next" нет)
func (a *HicentralFetcherAdapter) FetchLinks(ctx context.Context, pageURL string) ([]domain.PropertyLink, string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLinksLogger := logger.WithFields(port.Fields{"component": "HicentralFetcherAdapter(FetchLinks)"})

	// "одноразовый" клон: общий HTTP-клиент, свои обработчики
	collector := a.collector.Clone()

	var fetchedLinks []domain.PropertyLink
	var nextURL string
	var nextFound bool
	var documentParsed bool
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		fetchLinksLogger.Debug("Making request to fetch links", port.Fields{"url": r.URL.String()})
	})

	parseAnyBody(collector, fetchLinksLogger)

	collector.OnHTML("html", func(e *colly.HTMLElement) {
		documentParsed = true
	})

	// Собираем ссылки на объявления
	collector.OnHTML(constants.ListingAnchorSelector, func(e *colly.HTMLElement) {
		if responseErr != nil {
			return
		}
		href, ok := e.DOM.Attr("href")
		if !ok {
			responseErr = fmt.Errorf("HicentralAdapter: listing anchor #%d on %s: %w", len(fetchedLinks)+1, pageURL, ErrMissingHref)
			return
		}
		fetchedLinks = append(fetchedLinks, domain.PropertyLink{
			URL:    a.listingURL(href),
			Source: domain.SourceHicentral,
		})
	})

	// Если есть кнопка "next", запоминаем следующую страницу; берется первая найденная
	collector.OnHTML("a#"+constants.NextPageAnchorID, func(e *colly.HTMLElement) {
		if nextFound || responseErr != nil {
			return
		}
		nextFound = true
		href, ok := e.DOM.Attr("href")
		if !ok {
			responseErr = fmt.Errorf("HicentralAdapter: next page anchor on %s: %w", pageURL, ErrMissingHref)
			return
		}
		nextURL = a.nextPageURL(href)
	})

	// сюда попадают только сетевые ошибки: статусы ответа разбираются как обычная страница
	collector.OnError(func(r *colly.Response, err error) {
		fetchLinksLogger.Error("Failed to fetch links page", err, port.Fields{"url": r.Request.URL.String()})
		responseErr = fmt.Errorf("HicentralAdapter: request to %s failed: %w", r.Request.URL, err)
	})

	if visitErr := collector.Visit(pageURL); visitErr != nil {
		// OnError уже сохранил сетевую ошибку
		if responseErr != nil {
			return nil, "", responseErr
		}
		fetchLinksLogger.Error("Failed to initiate visit for fetching links", visitErr, port.Fields{"url": pageURL})
		return nil, "", fmt.Errorf("HicentralAdapter: failed to visit URL %s: %w", pageURL, visitErr)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, "", responseErr
	}
	if !documentParsed {
		return nil, "", fmt.Errorf("HicentralAdapter: results page %s: %w", pageURL, ErrNoDocument)
	}

	fetchLinksLogger.Debug("Finished fetching links for URL", port.Fields{
		"url":           pageURL,
		"links_fetched": len(fetchedLinks),
		"next_page":     nextURL,
	})

	return fetchedLinks, nextURL, nil
}
