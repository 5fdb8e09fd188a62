package usecase

import (
	"context"
	"errors"
	"time"

	"hicentral-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

type fakePage struct {
	links []string
	next  string
	err   error
}

// fakeFetcher отдает страницы и объявления из памяти и запоминает порядок запросов
type fakeFetcher struct {
	pages    map[string]fakePage
	listings map[string]error // nil - объявление разбирается успешно

	requested []string
}

func (f *fakeFetcher) FetchLinks(_ context.Context, pageURL string) ([]domain.PropertyLink, string, error) {
	f.requested = append(f.requested, pageURL)
	page, ok := f.pages[pageURL]
	if !ok {
		return nil, "", errors.New("unexpected page " + pageURL)
	}
	if page.err != nil {
		return nil, "", page.err
	}
	links := make([]domain.PropertyLink, 0, len(page.links))
	for _, u := range page.links {
		links = append(links, domain.PropertyLink{URL: u, Source: domain.SourceHicentral})
	}
	return links, page.next, nil
}

func (f *fakeFetcher) FetchListing(_ context.Context, listingURL string) (*domain.ListingRecord, error) {
	f.requested = append(f.requested, listingURL)
	if err, ok := f.listings[listingURL]; ok && err != nil {
		return nil, err
	}
	return &domain.ListingRecord{Address: "address of " + listingURL, URL: listingURL}, nil
}

type fakeDelay struct {
	calls int
	err   error
}

func (d *fakeDelay) Wait(ctx context.Context) (time.Duration, error) {
	d.calls++
	if d.err != nil {
		return 0, d.err
	}
	return time.Millisecond, ctx.Err()
}

type fakeStorage struct {
	calls    int
	runID    uuid.UUID
	listings []domain.ListingRecord
	err      error
}

func (s *fakeStorage) SaveAll(_ context.Context, runID uuid.UUID, listings []domain.ListingRecord) error {
	s.calls++
	s.runID = runID
	s.listings = listings
	return s.err
}
