package rabbitmq

import "github.com/magabrotheeeer/storefront/internal/models"

// QueueConfig очередь и ключ, по которому она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые читает notification-sender.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.order_placed", RoutingKey: models.EventOrderPlaced},
		{QueueName: "notifications.subscription_created", RoutingKey: models.EventSubscriptionCreated},
		{QueueName: "notifications.subscription_cancelled", RoutingKey: models.EventSubscriptionCancelled},
		{QueueName: "notifications.subscription_expiring", RoutingKey: models.EventSubscriptionExpiring},
	}
}
