package logger_adapter

import (
	"fmt"
	"hicentral-parser-service/internal/core/port"
	"log/slog"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// fluentPoster - часть *fluent.Fluent, которая нужна адаптеру
type fluentPoster interface {
	Post(tag string, message interface{}) error
	Close() error
}

// FluentLoggerAdapter отправляет записи в Fluent Bit; тег записи - уровень
type FluentLoggerAdapter struct {
	client   fluentPoster
	fields   port.Fields
	minLevel slog.Level
}

func NewFluentLoggerAdapter(client *fluent.Fluent, minLevel slog.Leveler) (*FluentLoggerAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}
	return newFluentLoggerAdapter(client, minLevel), nil
}

func newFluentLoggerAdapter(client fluentPoster, minLevel slog.Leveler) *FluentLoggerAdapter {
	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}

	return &FluentLoggerAdapter{
		client:   client,
		fields:   make(port.Fields),
		minLevel: level,
	}
}

func (a *FluentLoggerAdapter) mergeFields(fields port.Fields) port.Fields {
	merged := make(port.Fields, len(a.fields)+len(fields)+3)
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (a *FluentLoggerAdapter) post(level slog.Level, msg string, fields port.Fields, err error) {
	if level < a.minLevel {
		return
	}
	data := a.mergeFields(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	tag := map[slog.Level]string{
		slog.LevelDebug: "debug",
		slog.LevelInfo:  "info",
		slog.LevelWarn:  "warn",
		slog.LevelError: "error",
	}[level]
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	_ = a.client.Post(tag, data)
}

func (a *FluentLoggerAdapter) Info(msg string, fields port.Fields) {
	a.post(slog.LevelInfo, msg, fields, nil)
}

func (a *FluentLoggerAdapter) Warn(msg string, fields port.Fields) {
	a.post(slog.LevelWarn, msg, fields, nil)
}

func (a *FluentLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	a.post(slog.LevelError, msg, fields, err)
}

func (a *FluentLoggerAdapter) Debug(msg string, fields port.Fields) {
	a.post(slog.LevelDebug, msg, fields, nil)
}

// WithFields создает новый логгер с расширенным контекстом
func (a *FluentLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &FluentLoggerAdapter{
		client:   a.client,
		fields:   a.mergeFields(fields),
		minLevel: a.minLevel,
	}
}

func (a *FluentLoggerAdapter) Close() error {
	return a.client.Close()
}
