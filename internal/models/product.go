package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product товар каталога.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image,omitempty"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"is_active"`
}

// InStock сообщает, есть ли товар на складе.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductPatch частичное обновление товара: nil означает "оставить как есть".
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Stock       *int
	IsActive    *bool
}

// Apply переносит заданные поля патча в товар.
func (p ProductPatch) Apply(product *Product) {
	if p.Title != nil {
		product.Title = *p.Title
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Image != nil {
		product.Image = p.Image
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.IsActive != nil {
		product.IsActive = *p.IsActive
	}
}

// ParsePrice разбирает цену из строки и округляет её до копеек.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Zero, NewError(ErrValidation, "please enter a valid price")
	}
	return price.Round(2), nil
}
