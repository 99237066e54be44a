// Package models содержит доменные структуры магазина: учётные записи,
// товары, заказы, подписки и корзину, а также виды доменных ошибок.
package models

import "time"

// User зарегистрированный покупатель.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      *string   `json:"address,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Admin отдельная привилегированная учётная запись, не подтип User.
type Admin struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	IsActive     bool       `json:"is_active"`
}
