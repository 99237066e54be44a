// Package sender собирает notification-sender: потребителей очередей уведомлений и SMTP-транспорт.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/storefront/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	queues        []rabbitmq.QueueConfig
	senderService *senderservice.Service
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	transport := smtp.NewTransport(cfg, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		queues:        queues,
		senderService: senderservice.NewService(transport, logger),
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	handlers := a.senderService.Handlers(ctx)
	for _, q := range a.queues {
		handler, ok := handlers[q.RoutingKey]
		if !ok {
			a.logger.Warn("no handler for queue", slog.String("queue", q.QueueName))
			continue
		}
		if err := rabbitmq.ConsumerMessage(ctx, a.ch, q.QueueName, a.logger, handler); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			a.close()
			return err
		}
		a.logger.Info("consumer started", slog.String("queue", q.QueueName))
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
