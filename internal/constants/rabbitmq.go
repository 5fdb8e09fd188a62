package constants

const ParserExchange = "parser_exchange"

// Ключи маршрутизации
const (
	RoutingKeyProcessedListings = "db.hicentral.listings.save"
)

// Контракт события с разобранным объявлением
const (
	ProcessedListingEventType    = "ProcessedListingEvent"
	ProcessedListingEventVersion = "1.0.0"
)
