package domain

// PropertyLink - ссылка на объявление, найденная на странице результатов
type PropertyLink struct {
	URL    string
	Source string
	Page   int // номер страницы результатов, начиная с 1
}

// CrawlSettings - параметры прогона, которые прокидываются в use case'ы явно
type CrawlSettings struct {
	// Limited - режим отладки: одна страница результатов и одно объявление
	Limited bool
}

// LinksBatch - результат обхода страниц результатов
type LinksBatch struct {
	Links        []PropertyLink // в порядке обхода, дубликаты сохраняются
	PagesVisited int
}
