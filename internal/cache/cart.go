package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// CartStore хранит корзины в списках Redis. Каждый элемент списка это JSON
// одной записи корзины. Время жизни ключа продлевается при каждом изменении.
type CartStore struct {
	c   *Cache
	ttl time.Duration
}

// NewCartStore создаёт хранилище корзин с временем жизни ttl.
func NewCartStore(c *Cache, ttl time.Duration) *CartStore {
	return &CartStore{c: c, ttl: ttl}
}

// Append добавляет запись в конец корзины.
func (s *CartStore) Append(ctx context.Context, key string, entry models.CartEntry) error {
	const op = "cache.CartAppend"

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	pipe := s.c.Db.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Entries возвращает записи корзины в порядке добавления.
func (s *CartStore) Entries(ctx context.Context, key string) ([]models.CartEntry, error) {
	const op = "cache.CartEntries"

	raw, err := s.c.Db.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	entries := make([]models.CartEntry, 0, len(raw))
	for _, r := range raw {
		var e models.CartEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Remove удаляет запись с lineID. Возвращает false, если такой записи нет.
func (s *CartStore) Remove(ctx context.Context, key, lineID string) (bool, error) {
	const op = "cache.CartRemove"

	raw, err := s.c.Db.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	for _, r := range raw {
		var e models.CartEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			continue
		}
		if e.LineID != lineID {
			continue
		}
		n, err := s.c.Db.LRem(ctx, key, 1, r).Result()
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return n > 0, nil
	}
	return false, nil
}

// Clear удаляет корзину целиком.
func (s *CartStore) Clear(ctx context.Context, key string) error {
	if err := s.c.Invalidate(ctx, key); err != nil {
		return fmt.Errorf("cache.CartClear: %w", err)
	}
	return nil
}
