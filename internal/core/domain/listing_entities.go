package domain

// SourceHicentral - имя источника в логах, событиях и таблице
const SourceHicentral = "hicentral"

// ListingRecord - одно объявление о продаже.
// Порядок полей задает порядок ключей в JSON-дампе.
// nil в Price, PropertyType и ListDate означает, что значение не найдено на странице.
type ListingRecord struct {
	Address      string  `json:"address"`
	Price        *string `json:"price"`
	PropertyType *string `json:"property_type"`
	URL          string  `json:"url"`
	ListDate     *string `json:"list_date"`
}
