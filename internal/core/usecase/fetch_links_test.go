package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hicentral-parser-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageLinks(page, k int) []string {
	links := make([]string, 0, k)
	for i := 0; i < k; i++ {
		links = append(links, fmt.Sprintf("https://site/HBR/ForSale/p%d-%d", page, i))
	}
	return links
}

func TestFetchLinksFollowsNextPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"p1": {links: pageLinks(1, 3), next: "p2"},
		"p2": {links: pageLinks(2, 4), next: "p3"},
		"p3": {links: pageLinks(3, 2)},
	}}
	delay := &fakeDelay{}
	uc := NewFetchLinksUseCase(fetcher, delay, domain.CrawlSettings{})

	batch, err := uc.Execute(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 3, batch.PagesVisited)
	require.Len(t, batch.Links, 9)
	assert.Equal(t, []string{"p1", "p2", "p3"}, fetcher.requested)
	assert.Equal(t, 3, delay.calls)

	assert.Equal(t, 1, batch.Links[0].Page)
	assert.Equal(t, 2, batch.Links[3].Page)
	assert.Equal(t, 3, batch.Links[8].Page)
	assert.Equal(t, "https://site/HBR/ForSale/p2-0", batch.Links[3].URL)
}

func TestFetchLinksGrowsByPageSize(t *testing.T) {
	for _, k := range []int{0, 1, 5, 20} {
		fetcher := &fakeFetcher{pages: map[string]fakePage{"p1": {links: pageLinks(1, k)}}}
		uc := NewFetchLinksUseCase(fetcher, &fakeDelay{}, domain.CrawlSettings{})

		batch, err := uc.Execute(context.Background(), "p1")
		require.NoError(t, err)
		assert.Len(t, batch.Links, k)
	}
}

func TestFetchLinksKeepsDuplicates(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"p1": {links: []string{"a", "a"}, next: "p2"},
		"p2": {links: []string{"a"}},
	}}
	uc := NewFetchLinksUseCase(fetcher, &fakeDelay{}, domain.CrawlSettings{})

	batch, err := uc.Execute(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, batch.Links, 3)
}

func TestFetchLinksLimitedVisitsOnePage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"p1": {links: pageLinks(1, 3), next: "p2"},
		"p2": {links: pageLinks(2, 3)},
	}}
	uc := NewFetchLinksUseCase(fetcher, &fakeDelay{}, domain.CrawlSettings{Limited: true})

	batch, err := uc.Execute(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"p1"}, fetcher.requested)
	assert.Equal(t, 1, batch.PagesVisited)
	assert.Len(t, batch.Links, 3)
}

func TestFetchLinksAbortsOnFetchError(t *testing.T) {
	boom := errors.New("status 500")
	fetcher := &fakeFetcher{pages: map[string]fakePage{
		"p1": {links: pageLinks(1, 3), next: "p2"},
		"p2": {err: boom},
	}}
	uc := NewFetchLinksUseCase(fetcher, &fakeDelay{}, domain.CrawlSettings{})

	batch, err := uc.Execute(context.Background(), "p1")
	assert.Nil(t, batch)
	assert.ErrorIs(t, err, boom)
}

func TestFetchLinksAbortsOnDelayError(t *testing.T) {
	fetcher := &fakeFetcher{}
	uc := NewFetchLinksUseCase(fetcher, &fakeDelay{err: context.DeadlineExceeded}, domain.CrawlSettings{})

	_, err := uc.Execute(context.Background(), "p1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, fetcher.requested)
}

func TestFetchLinksStopsOnCancelledContext(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]fakePage{"p1": {links: pageLinks(1, 1)}}}
	uc := NewFetchLinksUseCase(fetcher, &fakeDelay{}, domain.CrawlSettings{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, "p1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.requested)
}

func TestFetchLinksRequiresStartURL(t *testing.T) {
	uc := NewFetchLinksUseCase(&fakeFetcher{}, &fakeDelay{}, domain.CrawlSettings{})
	_, err := uc.Execute(context.Background(), "")
	assert.Error(t, err)
}
