// Package order собирает заказы из корзины, оформляет их и меняет их статус.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Repository хранилище заказов с поддержкой транзакций.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, from, to models.OrderStatus) (bool, error)
}

// Stock управление остатками товаров.
type Stock interface {
	ReduceStock(ctx context.Context, id int64, quantity int) error
	RestoreStock(ctx context.Context, id int64, quantity int) error
	Forget(ctx context.Context, ids ...int64)
}

// Cart корзина покупателя.
type Cart interface {
	Items(ctx context.Context, identity models.Identity) ([]models.CartEntry, error)
	Clear(ctx context.Context, identity models.Identity) error
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Metrics учёт оформленных заказов.
type Metrics interface {
	OrderPlaced(total float64)
	CheckoutFailed(reason string)
}

// Service оформление и просмотр заказов.
type Service struct {
	repo      Repository
	stock     Stock
	cart      Cart
	publisher Publisher
	metrics   Metrics
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, stock Stock, cart Cart, publisher Publisher, metrics Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		cart:      cart,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
}

// Assemble собирает несохранённый заказ. Сумма равна Σ price×quantity по
// переданным строкам, цены берутся как есть и не перечитываются из каталога.
// Пустой список даёт заказ с нулевой суммой.
func Assemble(userID int64, lines []models.LineItem) models.Order {
	order := models.Order{
		UserID:     userID,
		TotalPrice: decimal.Zero,
		Status:     models.OrderPending,
		Items:      make([]models.OrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		order.TotalPrice = order.TotalPrice.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		order.Items = append(order.Items, models.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}
	return order
}

// GroupEntries сворачивает записи корзины в строки заказа: один товар с
// одной ценой даёт одну строку с количеством, равным числу записей.
// Порядок строк соответствует первому появлению в корзине.
func GroupEntries(entries []models.CartEntry) []models.LineItem {
	type lineKey struct {
		productID int64
		price     string
	}
	index := make(map[lineKey]int, len(entries))
	lines := make([]models.LineItem, 0, len(entries))
	for _, e := range entries {
		k := lineKey{productID: e.ProductID, price: e.Price.String()}
		if i, ok := index[k]; ok {
			lines[i].Quantity++
			continue
		}
		index[k] = len(lines)
		lines = append(lines, models.LineItem{ProductID: e.ProductID, Quantity: 1, Price: e.Price})
	}
	return lines
}

// Checkout оформляет заказ из корзины покупателя. Списание остатков и запись
// заказа происходят в одной транзакции. При любой ошибке корзина сохраняется.
func (s *Service) Checkout(ctx context.Context, identity models.Identity) (*models.Order, error) {
	const op = "order.Checkout"
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", identity.ID))

	if !identity.IsUser() {
		return nil, models.NewError(models.ErrForbidden, "only customers can check out")
	}
	entries, err := s.cart.Items(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(entries) == 0 {
		s.failed("empty_cart")
		return nil, models.NewError(models.ErrValidation, "your cart is empty")
	}

	lines := GroupEntries(entries)
	order := Assemble(identity.ID, lines)

	// Списываем в порядке ID товара, чтобы параллельные оформления
	// блокировали строки в одном порядке.
	byProduct := make(map[int64]int, len(lines))
	for _, l := range lines {
		byProduct[l.ProductID] += l.Quantity
	}
	productIDs := make([]int64, 0, len(byProduct))
	for id := range byProduct {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	err = s.repo.WithinTx(ctx, func(ctx context.Context) error {
		for _, id := range productIDs {
			if err := s.stock.ReduceStock(ctx, id, byProduct[id]); err != nil {
				return err
			}
		}
		return s.repo.CreateOrder(ctx, &order)
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInsufficientStock):
			s.failed("insufficient_stock")
		case errors.Is(err, models.ErrNotFound):
			s.failed("product_missing")
		default:
			s.failed("error")
		}
		s.stock.Forget(ctx, productIDs...)
		if _, ok := models.UserMessage(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.stock.Forget(ctx, productIDs...)

	if err := s.cart.Clear(ctx, identity); err != nil {
		log.Error("failed to clear cart after checkout", sl.Err(err))
	}
	if s.metrics != nil {
		s.metrics.OrderPlaced(order.TotalPrice.InexactFloat64())
	}
	s.publish(ctx, log, models.EventOrderPlaced, models.OrderPlacedEvent{
		OrderID:    order.ID,
		UserID:     identity.ID,
		Email:      identity.Email,
		TotalPrice: order.TotalPrice,
		Items:      len(entries),
	})
	log.Info("order placed", slog.Int64("order_id", order.ID), slog.String("total", order.TotalPrice.StringFixed(2)))
	return &order, nil
}

// List возвращает заказы покупателя, а администратору все заказы.
func (s *Service) List(ctx context.Context, identity models.Identity) ([]models.Order, error) {
	var userID int64
	switch {
	case identity.IsAdmin():
	case identity.IsUser():
		userID = identity.ID
	default:
		return nil, models.NewError(models.ErrForbidden, "authentication required")
	}
	orders, err := s.repo.ListOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("order.List: %w", err)
	}
	return orders, nil
}

// Get возвращает заказ владельцу или администратору. Чужой заказ выглядит как отсутствующий.
func (s *Service) Get(ctx context.Context, identity models.Identity, id int64) (*models.Order, error) {
	if !identity.IsAdmin() && !identity.IsUser() {
		return nil, models.NewError(models.ErrForbidden, "authentication required")
	}
	order, err := s.repo.GetOrder(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewError(models.ErrNotFound, "order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("order.Get: %w", err)
	}
	if identity.IsUser() && order.UserID != identity.ID {
		return nil, models.NewError(models.ErrNotFound, "order not found")
	}
	return order, nil
}

// Complete переводит заказ из Pending в Completed. Только для администратора.
func (s *Service) Complete(ctx context.Context, actor models.Identity, id int64) (*models.Order, error) {
	const op = "order.Complete"

	if !actor.IsAdmin() {
		return nil, models.NewError(models.ErrForbidden, "admin access required")
	}
	var order *models.Order
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.transition(ctx, id, models.OrderCompleted); err != nil {
			return err
		}
		var err error
		order, err = s.repo.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.wrap(op, err)
	}
	s.log.Info("order completed", slog.Int64("order_id", id))
	return order, nil
}

// Cancel переводит заказ из Pending в Cancelled и возвращает товары на склад
// в той же транзакции. Только для администратора.
func (s *Service) Cancel(ctx context.Context, actor models.Identity, id int64) (*models.Order, error) {
	const op = "order.Cancel"

	if !actor.IsAdmin() {
		return nil, models.NewError(models.ErrForbidden, "admin access required")
	}
	var order *models.Order
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.transition(ctx, id, models.OrderCancelled); err != nil {
			return err
		}
		var err error
		order, err = s.repo.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		for _, it := range order.Items {
			if err := s.stock.RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.wrap(op, err)
	}
	ids := make([]int64, 0, len(order.Items))
	for _, it := range order.Items {
		ids = append(ids, it.ProductID)
	}
	s.stock.Forget(ctx, ids...)
	s.log.Info("order cancelled", slog.Int64("order_id", id))
	return order, nil
}

func (s *Service) transition(ctx context.Context, id int64, to models.OrderStatus) error {
	ok, err := s.repo.UpdateOrderStatus(ctx, id, models.OrderPending, to)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewError(models.ErrNotFound, "order not found")
	}
	if err != nil {
		return err
	}
	if !ok {
		return models.NewError(models.ErrValidation, "only pending orders can be changed")
	}
	return nil
}

func (s *Service) wrap(op string, err error) error {
	if _, ok := models.UserMessage(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) failed(reason string) {
	if s.metrics != nil {
		s.metrics.CheckoutFailed(reason)
	}
}

func (s *Service) publish(ctx context.Context, log *slog.Logger, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		log.Error("failed to publish event", slog.String("event", key), sl.Err(err))
	}
}
