package rabbitmq

import (
	"time"

	"github.com/google/uuid"
)

// ProcessedListingEventDTO - это структура контракта.
// Она точно соответствует JSON-схеме events/processed-listing/v1.json
type ProcessedListingEventDTO struct {
	Source       string    `json:"source"`
	RunID        uuid.UUID `json:"run_id"`
	Address      string    `json:"address"`
	Price        *string   `json:"price"`
	PropertyType *string   `json:"property_type"`
	URL          string    `json:"url"`
	ListDate     *string   `json:"list_date"`
	ScrapedAt    time.Time `json:"scraped_at"`
}
