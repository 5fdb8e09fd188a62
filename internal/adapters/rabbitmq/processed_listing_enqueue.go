package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hicentral-parser-service/internal/constants"
	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/contracts"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher - то, что адаптеру нужно от rabbitmq_producer.Publisher
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ProcessedListingQueueAdapter реализует ListingsStoragePort:
// каждое объявление прогона уходит отдельным событием ProcessedListingEvent
type ProcessedListingQueueAdapter struct {
	producer   publisher
	routingKey string
	now        func() time.Time
}

// NewProcessedListingQueueAdapter - конструктор.
// producer - уже инициализированный rabbitmq_producer.Publisher.
func NewProcessedListingQueueAdapter(producer publisher, routingKey string) (*ProcessedListingQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}

	return &ProcessedListingQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

// SaveAll публикует объявления по порядку; первая ошибка прерывает отправку
func (a *ProcessedListingQueueAdapter) SaveAll(ctx context.Context, runID uuid.UUID, listings []domain.ListingRecord) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ProcessedListingQueueAdapter",
		"routing_key": a.routingKey,
		"run_id":      runID.String(),
	})

	scrapedAt := a.now().UTC()
	for i, rec := range listings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.publish(ctx, toEventDTO(runID, scrapedAt, rec)); err != nil {
			adapterLogger.Error("Failed to publish processed listing", err, port.Fields{"url": rec.URL, "index": i})
			return fmt.Errorf("rabbitmq adapter: listing %s: %w", rec.URL, err)
		}
	}

	adapterLogger.Info("Successfully published processed listings", port.Fields{"listings_count": len(listings)})
	return nil
}

func (a *ProcessedListingQueueAdapter) publish(ctx context.Context, event ProcessedListingEventDTO) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	// до брокера доходят только события, прошедшие контракт
	if err := contracts.ValidateEvent(constants.ProcessedListingEventType, constants.ProcessedListingEventVersion, body); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.ScrapedAt,
		Headers: amqp.Table{
			"event-type":    constants.ProcessedListingEventType,
			"event-version": constants.ProcessedListingEventVersion,
			"x-run-id":      event.RunID.String(),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return a.producer.Publish(publishCtx, a.routingKey, msg)
}

func toEventDTO(runID uuid.UUID, scrapedAt time.Time, rec domain.ListingRecord) ProcessedListingEventDTO {
	return ProcessedListingEventDTO{
		Source:       domain.SourceHicentral,
		RunID:        runID,
		Address:      rec.Address,
		Price:        rec.Price,
		PropertyType: rec.PropertyType,
		URL:          rec.URL,
		ListDate:     rec.ListDate,
		ScrapedAt:    scrapedAt,
	}
}
