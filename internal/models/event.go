package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ключи маршрутизации событий в обменнике уведомлений.
const (
	EventOrderPlaced           = "order.placed"
	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventSubscriptionExpiring  = "subscription.expiring"
)

// OrderPlacedEvent публикуется после успешного оформления заказа.
type OrderPlacedEvent struct {
	OrderID    int64           `json:"order_id"`
	UserID     int64           `json:"user_id"`
	Email      string          `json:"email"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      int             `json:"items"`
}

// SubscriptionEvent публикуется при создании, отмене и скором окончании подписки.
type SubscriptionEvent struct {
	SubscriptionID int64      `json:"subscription_id"`
	UserID         int64      `json:"user_id"`
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	PlanName       string     `json:"plan_name"`
	EndDate        *time.Time `json:"end_date,omitempty"`
}
