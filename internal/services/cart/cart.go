// Package cart хранит корзину покупателя: список снимков товаров с ценой
// на момент добавления. Корзина живёт столько же, сколько сессия.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// Store хранилище записей корзины.
type Store interface {
	Append(ctx context.Context, key string, entry models.CartEntry) error
	Entries(ctx context.Context, key string) ([]models.CartEntry, error)
	Remove(ctx context.Context, key, lineID string) (bool, error)
	Clear(ctx context.Context, key string) error
}

// ProductSource источник товаров для снимков.
type ProductSource interface {
	Get(ctx context.Context, id int64) (*models.Product, error)
}

// Service корзина покупателя.
type Service struct {
	store    Store
	products ProductSource
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(store Store, products ProductSource, log *slog.Logger) *Service {
	return &Service{store: store, products: products, log: log}
}

func key(identity models.Identity) string {
	return "cart:" + string(identity.Kind) + ":" + strconv.FormatInt(identity.ID, 10)
}

func requireUser(identity models.Identity) error {
	if !identity.IsUser() {
		return models.NewError(models.ErrForbidden, "only customers have a cart")
	}
	return nil
}

// Add кладёт в корзину снимок товара. Повторное добавление того же товара
// создаёт отдельную запись.
func (s *Service) Add(ctx context.Context, identity models.Identity, productID int64) (models.CartEntry, error) {
	const op = "cart.Add"

	if err := requireUser(identity); err != nil {
		return models.CartEntry{}, err
	}
	p, err := s.products.Get(ctx, productID)
	if errors.Is(err, models.ErrNotFound) {
		return models.CartEntry{}, models.NewError(models.ErrNotFound, "product not found")
	}
	if err != nil {
		return models.CartEntry{}, fmt.Errorf("%s: %w", op, err)
	}
	if !p.IsActive {
		return models.CartEntry{}, models.NewError(models.ErrNotFound, "product not found")
	}
	if !p.InStock() {
		return models.CartEntry{}, models.NewError(models.ErrInsufficientStock, p.Title+" is out of stock")
	}

	entry := models.CartEntry{
		LineID:    uuid.NewString(),
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
	}
	if err := s.store.Append(ctx, key(identity), entry); err != nil {
		return models.CartEntry{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug("cart item added", slog.Int64("user_id", identity.ID), slog.Int64("product_id", p.ID))
	return entry, nil
}

// Items возвращает содержимое корзины.
func (s *Service) Items(ctx context.Context, identity models.Identity) ([]models.CartEntry, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	entries, err := s.store.Entries(ctx, key(identity))
	if err != nil {
		return nil, fmt.Errorf("cart.Items: %w", err)
	}
	return entries, nil
}

// Total сумма цен записей. Каждая запись это одна единица товара.
func Total(items []models.CartEntry) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}
	return total
}

// Remove удаляет одну запись корзины.
func (s *Service) Remove(ctx context.Context, identity models.Identity, lineID string) error {
	if err := requireUser(identity); err != nil {
		return err
	}
	removed, err := s.store.Remove(ctx, key(identity), lineID)
	if err != nil {
		return fmt.Errorf("cart.Remove: %w", err)
	}
	if !removed {
		return models.NewError(models.ErrNotFound, "cart item not found")
	}
	return nil
}

// Clear очищает корзину.
func (s *Service) Clear(ctx context.Context, identity models.Identity) error {
	if err := s.store.Clear(ctx, key(identity)); err != nil {
		return fmt.Errorf("cart.Clear: %w", err)
	}
	return nil
}
