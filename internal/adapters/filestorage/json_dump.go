package filestorage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"hicentral-parser-service/internal/contextkeys"
	"hicentral-parser-service/internal/core/domain"
	"hicentral-parser-service/internal/core/port"

	"github.com/google/uuid"
)

// JSONDumpAdapter реализует ListingsStoragePort: пишет все объявления прогона
// одним JSON-массивом в файл
type JSONDumpAdapter struct {
	path string
}

// NewJSONDumpAdapter - конструктор. Файл создается или перезаписывается при SaveAll.
func NewJSONDumpAdapter(path string) (*JSONDumpAdapter, error) {
	if path == "" {
		return nil, fmt.Errorf("json dump adapter: path cannot be empty")
	}
	return &JSONDumpAdapter{path: path}, nil
}

// Path - куда пишется дамп
func (a *JSONDumpAdapter) Path() string {
	return a.path
}

// SaveAll перезаписывает файл: массив с отступом в два пробела,
// не-ASCII символы и HTML-символы пишутся как есть
func (a *JSONDumpAdapter) SaveAll(ctx context.Context, runID uuid.UUID, listings []domain.ListingRecord) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "JSONDumpAdapter",
		"path":      a.path,
		"run_id":    runID.String(),
	})

	if listings == nil {
		// пустой прогон дает "[]", а не "null"
		listings = []domain.ListingRecord{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(listings); err != nil {
		logger.Error("Failed to encode listings", err, nil)
		return fmt.Errorf("json dump adapter: failed to encode listings: %w", err)
	}

	file, err := os.Create(a.path)
	if err != nil {
		logger.Error("Failed to create dump file", err, nil)
		return fmt.Errorf("json dump adapter: failed to create %s: %w", a.path, err)
	}
	defer file.Close()

	if _, err := file.Write(unescapeLineSeparators(buf.Bytes())); err != nil {
		logger.Error("Failed to write dump file", err, nil)
		return fmt.Errorf("json dump adapter: failed to write %s: %w", a.path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("json dump adapter: failed to close %s: %w", a.path, err)
	}

	logger.Info("Listings dumped to file", port.Fields{"listings_count": len(listings)})
	return nil
}

// unescapeLineSeparators возвращает U+2028 и U+2029 в виде самих символов:
// encoding/json экранирует их всегда, даже при SetEscapeHTML(false).
// Экранированный обратный слеш ("\\u2028" в тексте) не трогается.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if rest := data[i+1:]; len(rest) >= 5 {
			switch string(rest[:5]) {
			case "u2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "u2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		// любая другая escape-последовательность копируется парой
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// LoadAll читает ранее записанный дамп
func LoadAll(path string) ([]domain.ListingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("json dump: failed to read %s: %w", path, err)
	}

	var listings []domain.ListingRecord
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("json dump: failed to decode %s: %w", path, err)
	}
	return listings, nil
}
