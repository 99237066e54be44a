// Package catalog управляет товарами и их остатками на складе.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

const productTTL = time.Hour

// Repository хранилище товаров.
type Repository interface {
	CreateProduct(ctx context.Context, p models.Product) (int64, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, includeInactive bool) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error)
	ReduceStock(ctx context.Context, id int64, quantity int) error
	RestoreStock(ctx context.Context, id int64, quantity int) error
}

// Cache кэш товаров.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Metrics учёт попаданий в кэш.
type Metrics interface {
	CacheLookup(hit bool)
}

// ProductInput данные нового товара. Цена передаётся строкой и разбирается как десятичное число.
type ProductInput struct {
	Title       string
	Description string
	Price       string
	Image       *string
	Stock       int
	IsActive    *bool
}

// Service каталог товаров.
type Service struct {
	repo    Repository
	cache   Cache
	metrics Metrics
	log     *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, metrics Metrics, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, metrics: metrics, log: log}
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

// Create добавляет товар. Только для администратора.
func (s *Service) Create(ctx context.Context, actor models.Identity, in ProductInput) (*models.Product, error) {
	const op = "catalog.Create"

	if !actor.IsAdmin() {
		return nil, models.NewError(models.ErrForbidden, "admin access required")
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, models.NewError(models.ErrValidation, "title and description are required")
	}
	price, err := models.ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, models.NewError(models.ErrValidation, "stock cannot be negative")
	}

	p := models.Product{
		Title:       in.Title,
		Description: in.Description,
		Price:       price,
		Image:       in.Image,
		Stock:       in.Stock,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	p.ID, err = s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product created", slog.Int64("product_id", p.ID))
	return &p, nil
}

// Update применяет патч к товару. Только для администратора.
func (s *Service) Update(ctx context.Context, actor models.Identity, id int64, patch models.ProductPatch) (*models.Product, error) {
	const op = "catalog.Update"

	if !actor.IsAdmin() {
		return nil, models.NewError(models.ErrForbidden, "admin access required")
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	p, err := s.repo.UpdateProduct(ctx, id, patch)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewError(models.ErrNotFound, "product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.Forget(ctx, id)
	return p, nil
}

func validatePatch(p models.ProductPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return models.NewError(models.ErrValidation, "title cannot be empty")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return models.NewError(models.ErrValidation, "description cannot be empty")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return models.NewError(models.ErrValidation, "please enter a valid price")
	}
	if p.Stock != nil && *p.Stock < 0 {
		return models.NewError(models.ErrValidation, "stock cannot be negative")
	}
	return nil
}

// ReduceStock списывает quantity единиц товара. Если товара не хватает,
// возвращает models.ErrInsufficientStock и остаток не меняется.
func (s *Service) ReduceStock(ctx context.Context, id int64, quantity int) error {
	const op = "catalog.ReduceStock"

	if quantity < 1 {
		return models.NewError(models.ErrValidation, "quantity must be positive")
	}
	err := s.repo.ReduceStock(ctx, id, quantity)
	switch {
	case errors.Is(err, models.ErrInsufficientStock):
		return models.NewError(models.ErrInsufficientStock, "not enough stock for product "+strconv.FormatInt(id, 10))
	case errors.Is(err, models.ErrNotFound):
		return models.NewError(models.ErrNotFound, "product not found")
	case err != nil:
		return fmt.Errorf("%s: %w", op, err)
	}
	s.Forget(ctx, id)
	return nil
}

// RestoreStock возвращает quantity единиц товара на склад.
func (s *Service) RestoreStock(ctx context.Context, id int64, quantity int) error {
	const op = "catalog.RestoreStock"

	if quantity < 1 {
		return models.NewError(models.ErrValidation, "quantity must be positive")
	}
	if err := s.repo.RestoreStock(ctx, id, quantity); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.Forget(ctx, id)
	return nil
}

// List возвращает активные товары для покупателей.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("catalog.List: %w", err)
	}
	return products, nil
}

// ListAll возвращает все товары, включая скрытые. Только для администратора.
func (s *Service) ListAll(ctx context.Context, actor models.Identity) ([]models.Product, error) {
	if !actor.IsAdmin() {
		return nil, models.NewError(models.ErrForbidden, "admin access required")
	}
	products, err := s.repo.ListProducts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("catalog.ListAll: %w", err)
	}
	return products, nil
}

// Get возвращает товар, сначала пытаясь прочитать его из кэша.
// Ошибки кэша не прерывают чтение из базы.
func (s *Service) Get(ctx context.Context, id int64) (*models.Product, error) {
	const op = "catalog.Get"
	log := s.log.With(slog.String("op", op))

	var cached models.Product
	found, err := s.cache.Get(ctx, productKey(id), &cached)
	if err != nil {
		log.Warn("cache read failed", sl.Err(err))
	}
	if s.metrics != nil {
		s.metrics.CacheLookup(found)
	}
	if found {
		return &cached, nil
	}

	p, err := s.repo.GetProduct(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewError(models.ErrNotFound, "product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, productKey(id), p, productTTL); err != nil {
		log.Warn("cache write failed", sl.Err(err))
	}
	return p, nil
}

// Forget удаляет товары из кэша.
func (s *Service) Forget(ctx context.Context, ids ...int64) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("cache invalidate failed", slog.String("op", "catalog.Forget"), sl.Err(err))
	}
}
