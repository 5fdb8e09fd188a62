package hicentralfetcher

import (
	"fmt"
	"strings"

	"hicentral-parser-service/internal/constants"
	"hicentral-parser-service/internal/core/domain"

	"github.com/PuerkitoBio/goquery"
)

// attributeCell - одна ячейка таблицы характеристик: заголовок (dt) или значение (dd)
type attributeCell struct {
	isLabel bool
	text    string
}

// toListingRecord извлекает запись из разобранной страницы объявления
func toListingRecord(doc *goquery.Selection, listingURL string) (*domain.ListingRecord, error) {
	heading := doc.Find(constants.AddressSelector).First()
	if heading.Length() == 0 {
		return nil, fmt.Errorf("listing %s: %w", listingURL, ErrAddressNotFound)
	}

	propertyType, listDate := scanAttributes(collectAttributeBlocks(doc))

	return &domain.ListingRecord{
		Address:      headingText(heading),
		Price:        activePrice(doc),
		PropertyType: propertyType,
		URL:          listingURL,
		ListDate:     listDate,
	}, nil
}

// headingText возвращает текст заголовка, где каждый <br> заменен одним пробелом.
// Остальные пробельные символы сохраняются как есть.
func headingText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		switch goquery.NodeName(node) {
		case "br":
			b.WriteString(" ")
		case "#text":
			b.WriteString(node.Text())
		default:
			b.WriteString(headingText(node))
		}
	})
	return b.String()
}

// activePrice - текст первого блока активной цены или nil
func activePrice(doc *goquery.Selection) *string {
	price := doc.Find(constants.ActivePriceSelector).First()
	if price.Length() == 0 {
		return nil
	}
	text := price.Text()
	return &text
}

// collectAttributeBlocks собирает из каждого блока dl его прямых потомков dt/dd в порядке документа
func collectAttributeBlocks(doc *goquery.Selection) [][]attributeCell {
	var blocks [][]attributeCell
	doc.Find(constants.AttributeBlocksSelector).Each(func(_ int, dl *goquery.Selection) {
		var cells []attributeCell
		dl.Children().Each(func(_ int, tag *goquery.Selection) {
			switch goquery.NodeName(tag) {
			case "dt":
				cells = append(cells, attributeCell{isLabel: true, text: tag.Text()})
			case "dd":
				cells = append(cells, attributeCell{isLabel: false, text: tag.Text()})
			}
		})
		blocks = append(blocks, cells)
	})
	return blocks
}

// scanAttributes проходит по ячейкам всех блоков по очереди: заголовок, значение, заголовок, значение...
// Последний увиденный заголовок переживает границу блока. Значение под "Property Type:"
// становится типом недвижимости, под "List Date:" - датой размещения; более поздние
// совпадения перезаписывают ранние. Проверка "оба найдены" делается после каждого блока.
func scanAttributes(blocks [][]attributeCell) (propertyType, listDate *string) {
	var currentLabel string

	for _, block := range blocks {
		for _, cell := range block {
			if cell.isLabel {
				currentLabel = cell.text
				continue
			}
			switch currentLabel {
			case constants.PropertyTypeLabel:
				value := cell.text
				propertyType = &value
			case constants.ListDateLabel:
				value := cell.text
				listDate = &value
			}
		}
		if propertyType != nil && listDate != nil {
			break
		}
	}

	return propertyType, listDate
}
