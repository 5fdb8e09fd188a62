package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"hicentral-parser-service/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	compiledSchemas map[string]*jsonschema.Schema
	compileOnce     sync.Once
	compileErr      error
)

// LoadSchemas компилирует все схемы из schemas.SchemasFS.
// Повторные вызовы возвращают результат первого.
func LoadSchemas() error {
	compileOnce.Do(func() {
		compiledSchemas, compileErr = compileSchemas(schemas.SchemasFS)
	})
	return compileErr
}

func compileSchemas(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string

	// Сначала добавляем все схемы как ресурсы, чтобы работали ссылки через $ref
	err := fs.WalkDir(fsys, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open schema %s: %w", path, err)
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking and adding schema resources: %w", err)
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		key := generateKeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("schema path %s does not match events/<name>/v<N>.json", path)
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		compiled[key] = schema
	}
	return compiled, nil
}

// generateKeyFromPath преобразует путь вида "events/processed-listing/v1.json"
// в ключ вида "ProcessedListingEvent/1.0.0".
func generateKeyFromPath(path string) string {
	trimmedPath := strings.TrimPrefix(path, "events/")
	trimmedPath = strings.TrimSuffix(trimmedPath, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)

	var eventNameBuilder strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		eventNameBuilder.WriteString(caser.String(p))
	}
	eventNameBuilder.WriteString("Event")

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"

	return fmt.Sprintf("%s/%s", eventNameBuilder.String(), version)
}

// ValidateEvent проверяет тело сообщения по схеме события eventType версии eventVersion
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	if err := LoadSchemas(); err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s", eventType, eventVersion)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	// Распарсить JSON в универсальный тип interface{}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	return nil
}
