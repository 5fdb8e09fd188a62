package rabbitmq_producer

import (
	"context"
	"fmt"
	"sync"

	"hicentral-parser-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig конфигурация продюсера
type PublisherConfig struct {
	rabbitmq_common.Config
	ExchangeName       string // пустая строка - default exchange
	ExchangeType       string // direct, fanout, topic, headers
	DurableExchange    bool
	AutoDeleteExchange bool
	ExchangeArgs       amqp.Table

	// если false, продюсер считает, что обменник уже объявлен
	DeclareExchangeIfMissing bool

	Logger rabbitmq_common.Logger
}

func (c PublisherConfig) validate() error {
	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("invalid base config: %w", err)
	}
	if c.DeclareExchangeIfMissing && c.ExchangeName == "" {
		return fmt.Errorf("producer: exchange name is required when DeclareExchangeIfMissing is true")
	}
	if c.DeclareExchangeIfMissing && c.ExchangeType == "" {
		return fmt.Errorf("producer: exchange type is required when DeclareExchangeIfMissing is true")
	}
	return nil
}

// Publisher публикует сообщения в один обменник через собственный канал
type Publisher struct {
	config     PublisherConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.Mutex // amqp.Channel не потокобезопасен для публикации

	Logger rabbitmq_common.Logger
}

// NewPublisher получает канал у менеджера соединений и при необходимости объявляет обменник
func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager cannot be nil")
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}
	logger.Debug("Channel obtained from ConnectionManager")

	if cfg.DeclareExchangeIfMissing {
		logger.Debug("Declaring exchange", "name", cfg.ExchangeName, "type", cfg.ExchangeType)
		err = ch.ExchangeDeclare(
			cfg.ExchangeName,
			cfg.ExchangeType,
			cfg.DurableExchange,
			cfg.AutoDeleteExchange,
			false, // internal
			false, // no-wait
			cfg.ExchangeArgs,
		)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("producer: failed to declare exchange '%s': %w", cfg.ExchangeName, err)
		}
	}

	return &Publisher{
		config:     cfg,
		connection: conn,
		channel:    ch,
		Logger:     logger,
	}, nil
}

// Publish публикует одно сообщение
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.connection == nil || p.connection.IsClosed() {
		return fmt.Errorf("producer: not connected or channel/connection is closed")
	}

	err := p.channel.PublishWithContext(
		ctx,
		p.config.ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	return nil
}

// Close закрывает канал продюсера; соединением владеет ConnectionManager
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.Logger.Error(err, "Error closing channel")
		return err
	}
	p.Logger.Info("Producer closed.")
	return nil
}
