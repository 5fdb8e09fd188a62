package constants

// Адрес сайта и первая страница выдачи "For Sale / HotSheet"
const (
	DefaultBaseURL   = "https://propertysearch.hicentral.com"
	DefaultStartPath = "/HBR/ForSale/?/Results/HotSheet//1//"

	// ссылки на объявления на странице результатов относительные,
	// к домену их приклеиваем через этот префикс
	ListingPathPrefix = "/HBR/ForSale/"
)

// CSS-селекторы страницы результатов
const (
	ListingAnchorSelector = "div.P-Results1 > span > a"
	NextPageAnchorID      = "ctl00_main_ctl00_haNextTop"
)

// CSS-селекторы страницы объявления
const (
	AddressSelector         = "h2"
	ActivePriceSelector     = "div.price > span.P-Active"
	AttributeBlocksSelector = "div#content > div.column-block > div.column2 > dl"
)

// Заголовки (dt) в таблице характеристик. Сравниваются посимвольно.
const (
	PropertyTypeLabel = "Property Type:"
	ListDateLabel     = "List Date:"
)

const DefaultDumpFilename = "dump_hicentral_ads.json"

// Стратегии задержки между запросами
const (
	DelayStrategyRandom      = "random"
	DelayStrategyTokenBucket = "token_bucket"
)
