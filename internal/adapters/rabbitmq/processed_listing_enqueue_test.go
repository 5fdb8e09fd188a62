package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hicentral-parser-service/internal/core/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	routingKey string
	msg        amqp.Publishing
}

type fakePublisher struct {
	published []publishedMessage
	failAt    int // номер публикации (с 1), на которой вернуть ошибку; 0 - никогда
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, msg amqp.Publishing) error {
	if f.failAt > 0 && len(f.published)+1 == f.failAt {
		return errors.New("channel closed")
	}
	f.published = append(f.published, publishedMessage{routingKey: routingKey, msg: msg})
	return nil
}

func strPtr(s string) *string { return &s }

func TestNewProcessedListingQueueAdapterValidatesArgs(t *testing.T) {
	_, err := NewProcessedListingQueueAdapter(nil, "key")
	assert.Error(t, err)

	_, err = NewProcessedListingQueueAdapter(&fakePublisher{}, "")
	assert.Error(t, err)
}

func TestSaveAllPublishesEveryListing(t *testing.T) {
	pub := &fakePublisher{}
	adapter, err := NewProcessedListingQueueAdapter(pub, "db.hicentral.listings.save")
	require.NoError(t, err)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	adapter.now = func() time.Time { return fixed }

	runID := uuid.New()
	listings := []domain.ListingRecord{
		{Address: "123 Main St Honolulu, HI", Price: strPtr("$1"), URL: "https://propertysearch.hicentral.com/HBR/ForSale/?/1"},
		{Address: "456 King St", URL: "https://propertysearch.hicentral.com/HBR/ForSale/?/2", ListDate: strPtr("01-02-2024")},
	}

	require.NoError(t, adapter.SaveAll(context.Background(), runID, listings))
	require.Len(t, pub.published, 2)

	first := pub.published[0]
	assert.Equal(t, "db.hicentral.listings.save", first.routingKey)
	assert.Equal(t, "application/json", first.msg.ContentType)
	assert.Equal(t, amqp.Persistent, first.msg.DeliveryMode)
	assert.Equal(t, "ProcessedListingEvent", first.msg.Headers["event-type"])
	assert.Equal(t, "1.0.0", first.msg.Headers["event-version"])
	assert.Equal(t, runID.String(), first.msg.Headers["x-run-id"])

	var event ProcessedListingEventDTO
	require.NoError(t, json.Unmarshal(pub.published[1].msg.Body, &event))
	assert.Equal(t, "hicentral", event.Source)
	assert.Equal(t, runID, event.RunID)
	assert.Equal(t, "456 King St", event.Address)
	assert.Nil(t, event.Price)
	assert.Equal(t, "01-02-2024", *event.ListDate)
	assert.True(t, fixed.Equal(event.ScrapedAt))
}

func TestSaveAllStopsOnPublishError(t *testing.T) {
	pub := &fakePublisher{failAt: 2}
	adapter, err := NewProcessedListingQueueAdapter(pub, "key")
	require.NoError(t, err)

	listings := []domain.ListingRecord{
		{Address: "a", URL: "https://example.test/1"},
		{Address: "b", URL: "https://example.test/2"},
		{Address: "c", URL: "https://example.test/3"},
	}

	err = adapter.SaveAll(context.Background(), uuid.New(), listings)
	assert.Error(t, err)
	assert.Len(t, pub.published, 1)
}

func TestSaveAllRejectsEventsBreakingContract(t *testing.T) {
	pub := &fakePublisher{}
	adapter, err := NewProcessedListingQueueAdapter(pub, "key")
	require.NoError(t, err)

	// относительный адрес не проходит format: uri
	err = adapter.SaveAll(context.Background(), uuid.New(), []domain.ListingRecord{{Address: "a", URL: "not a url"}})
	assert.Error(t, err)
	assert.Empty(t, pub.published)
}


func TestPkgLoggerBridgeToFields(t *testing.T) {
	bridge := &PkgLoggerBridge{}
	fields := bridge.toFields("exchange", "parser_exchange", 42, "skipped", "dangling")

	assert.Equal(t, "parser_exchange", fields["exchange"])
	assert.Len(t, fields, 1)
}
