package hicentralfetcher

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"hicentral-parser-service/internal/constants"
	"hicentral-parser-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

var (
	// ErrNoDocument - ответ пришел, но HTML-документ так и не был разобран
	ErrNoDocument = errors.New("no HTML document in response")
	// ErrMissingHref - у ссылки на странице результатов нет атрибута href
	ErrMissingHref = errors.New("anchor has no href attribute")
	// ErrAddressNotFound - на странице объявления нет заголовка h2 с адресом
	ErrAddressNotFound = errors.New("address heading not found")
)

// HicentralFetcherAdapter отвечает за все взаимодействия с сайтом HiCentral
type HicentralFetcherAdapter struct {
	// родительский коллектор; для каждого запроса берется клон со своими колбэками
	collector *colly.Collector
	baseURL   string
}

// NewHicentralFetcherAdapter - конструктор.
// baseURL - домен сайта со схемой, например https://propertysearch.hicentral.com.
// requestTimeout == 0 означает отсутствие таймаута.
func NewHicentralFetcherAdapter(baseURL string, requestTimeout time.Duration) (*HicentralFetcherAdapter, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("HicentralFetcherAdapter: invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return nil, fmt.Errorf("HicentralFetcherAdapter: base URL %q must be absolute", baseURL)
	}

	// Задержку между запросами держит use case через DelayPort,
	// поэтому LimitRule здесь не задаем. Дубликаты ссылок обходим повторно.
	// Тело ответа разбирается при любом статусе; OnError остается только для сетевых ошибок.
	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(0),
	)
	c.SetRequestTimeout(requestTimeout)

	return &HicentralFetcherAdapter{
		collector: c,
		baseURL:   baseURL,
	}, nil
}

// listingURL собирает абсолютный адрес объявления из href на странице результатов
func (a *HicentralFetcherAdapter) listingURL(href string) string {
	return a.baseURL + constants.ListingPathPrefix + href
}

// nextPageURL собирает адрес следующей страницы из href кнопки "next"
func (a *HicentralFetcherAdapter) nextPageURL(href string) string {
	return a.baseURL + href
}

// parseAnyBody регистрирует на клоне коллектора обработчик, после которого тело
// любого ответа разбирается как HTML, каким бы ни был статус или Content-Type
func parseAnyBody(c *colly.Collector, logger port.LoggerPort) {
	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode < 200 || r.StatusCode >= 300 {
			logger.Warn("Non-success status, parsing response body anyway", port.Fields{
				"url":    r.Request.URL.String(),
				"status": r.StatusCode,
			})
		}
		if !strings.Contains(strings.ToLower(r.Headers.Get("Content-Type")), "html") {
			r.Headers.Set("Content-Type", "text/html")
		}
	})
}
