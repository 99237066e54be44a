package models

import "github.com/shopspring/decimal"

// CartEntry снимок товара в корзине. Повторное добавление даёт новую запись.
type CartEntry struct {
	LineID    string          `json:"line_id"`
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
}
