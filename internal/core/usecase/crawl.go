package usecase

import (
	"context"
	"fmt"
	"time"

	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"
	usecases_port "hicentral-parser-service/internal/core/port/usecases"

	"github.com/google/uuid"
)

// CrawlUseCase - один полный прогон: ссылки, затем объявления, затем сохранение.
// Если любой шаг упал, ничего не сохраняется.
type CrawlUseCase struct {
	fetchLinksUC   usecases_port.FetchLinksPort
	processLinksUC usecases_port.ProcessLinksPort
	storage        port.ListingsStoragePort
	startURL       string
	settings       domain.CrawlSettings

	now      func() time.Time
	newRunID func() uuid.UUID
}

func NewCrawlUseCase(
	fetchLinksUC usecases_port.FetchLinksPort,
	processLinksUC usecases_port.ProcessLinksPort,
	storage port.ListingsStoragePort,
	startURL string,
	settings domain.CrawlSettings,
) *CrawlUseCase {
	return &CrawlUseCase{
		fetchLinksUC:   fetchLinksUC,
		processLinksUC: processLinksUC,
		storage:        storage,
		startURL:       startURL,
		settings:       settings,
		now:            time.Now,
		newRunID:       uuid.New,
	}
}

func (uc *CrawlUseCase) Execute(ctx context.Context) (*domain.CrawlReport, error) {
	report := &domain.CrawlReport{
		RunID:     uc.newRunID(),
		StartedAt: uc.now(),
		Limited:   uc.settings.Limited,
	}

	runLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"run_id": report.RunID.String()})
	ctx = contextkeys.ContextWithLogger(ctx, runLogger)
	ctx = contextkeys.ContextWithRunID(ctx, report.RunID)

	ucLogger := runLogger.WithFields(port.Fields{"use_case": "Crawl"})
	ucLogger.Info("Starting crawl", port.Fields{"start_url": uc.startURL, "limited": uc.settings.Limited})

	batch, err := uc.fetchLinksUC.Execute(ctx, uc.startURL)
	if err != nil {
		ucLogger.Error("Collecting links failed", err, nil)
		return nil, fmt.Errorf("crawl: collecting links: %w", err)
	}
	report.PagesVisited = batch.PagesVisited
	report.LinksFound = len(batch.Links)

	listings, err := uc.processLinksUC.Execute(ctx, batch.Links)
	if err != nil {
		ucLogger.Error("Processing listings failed", err, nil)
		return nil, fmt.Errorf("crawl: processing listings: %w", err)
	}

	if err := uc.storage.SaveAll(ctx, report.RunID, listings); err != nil {
		ucLogger.Error("Saving listings failed", err, nil)
		return nil, fmt.Errorf("crawl: saving listings: %w", err)
	}
	report.ListingsSaved = len(listings)
	report.FinishedAt = uc.now()

	ucLogger.Info("Crawl finished", port.Fields{
		"pages_visited":  report.PagesVisited,
		"links_found":    report.LinksFound,
		"listings_saved": report.ListingsSaved,
		"duration":       report.Duration().String(),
	})

	return report, nil
}
