package domain

import (
	"time"

	"github.com/google/uuid"
)

// CrawlReport - итог одного прогона
type CrawlReport struct {
	RunID         uuid.UUID
	StartedAt     time.Time
	FinishedAt    time.Time
	PagesVisited  int
	LinksFound    int
	ListingsSaved int
	Limited       bool
}

// Duration - длительность прогона
func (r CrawlReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
