package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus статус заказа.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

// Order заказ пользователя. TotalPrice фиксируется при создании и не пересчитывается.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      OrderStatus     `json:"status"`
	DateOrdered time.Time       `json:"date_ordered"`
	Items       []OrderItem     `json:"items"`
}

// OrderItem позиция заказа с ценой на момент покупки.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// LineItem строка, из которой собирается заказ.
type LineItem struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}
