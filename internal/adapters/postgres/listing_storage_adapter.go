package postgres

import (
	"context"
	"fmt"
	"time"

	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingsTable = "hicentral_listings"

// порядок важен: совпадает с toListingRows
var listingColumns = []string{
	"run_id", "address", "price", "property_type", "url", "list_date", "scraped_at",
}

const createListingsTableSQL = `
	CREATE TABLE IF NOT EXISTS hicentral_listings (
		id            BIGSERIAL PRIMARY KEY,
		run_id        UUID        NOT NULL,
		address       TEXT        NOT NULL,
		price         TEXT,
		property_type TEXT,
		url           TEXT        NOT NULL,
		list_date     TEXT,
		scraped_at    TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS hicentral_listings_run_id_idx ON hicentral_listings (run_id);
`

// PostgresListingStorageAdapter реализует ListingsStoragePort для PostgreSQL.
// Дубликаты не отсекаются: каждый прогон дописывает свои строки.
type PostgresListingStorageAdapter struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresListingStorageAdapter создает новый экземпляр адаптера.
func NewPostgresListingStorageAdapter(pool *pgxpool.Pool) (*PostgresListingStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresListingStorageAdapter{
		pool: pool,
		now:  time.Now,
	}, nil
}

// EnsureSchema создает таблицу, если ее еще нет
func (a *PostgresListingStorageAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, createListingsTableSQL); err != nil {
		return fmt.Errorf("failed to create %s table: %w", listingsTable, err)
	}
	return nil
}

// SaveAll записывает всю пачку одним COPY в рамках транзакции
func (a *PostgresListingStorageAdapter) SaveAll(ctx context.Context, runID uuid.UUID, listings []domain.ListingRecord) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":    "PostgresListingStorageAdapter",
		"method":       "SaveAll",
		"record_count": len(listings),
	})

	if len(listings) == 0 {
		repoLogger.Info("No listings to save.", nil)
		return nil
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{listingsTable},
		listingColumns,
		pgx.CopyFromRows(toListingRows(runID, a.now().UTC(), listings)),
	)
	if err != nil {
		repoLogger.Error("Failed to COPY listings", err, nil)
		return fmt.Errorf("failed to copy to %s: %w", listingsTable, err)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Listings saved to database.", port.Fields{"rows_copied": copied})
	return nil
}

// toListingRows раскладывает записи по колонкам listingColumns; nil-указатели становятся NULL
func toListingRows(runID uuid.UUID, scrapedAt time.Time, listings []domain.ListingRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(listings))
	for _, rec := range listings {
		rows = append(rows, []interface{}{
			runID,
			rec.Address,
			rec.Price,
			rec.PropertyType,
			rec.URL,
			rec.ListDate,
			scrapedAt,
		})
	}
	return rows
}
