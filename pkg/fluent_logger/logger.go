package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

const defaultPort = 24224

// Config хранит параметры подключения к Fluent Bit.
type Config struct {
	Host      string // "127.0.0.1" или "fluent-bit" в Docker
	Port      int    // 0 означает порт по умолчанию (24224)
	TagPrefix string // общий префикс тегов, обычно имя сервиса
	Timeout   time.Duration
}

// NewClient создает клиента Fluent Bit.
// Соединение устанавливается лениво: ошибки сети проявятся при первой отправке.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("fluentd host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	logger, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Timeout:    cfg.Timeout,
		// не блокируем краулер, если коллектор логов недоступен
		Async: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}

	return logger, nil
}
