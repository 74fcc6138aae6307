package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/logiruta/logistica-api/internal/application/usecase"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/pkg/logger"
)

var _ usecase.ProductCache = (*ProductCache)(nil)

// ProductCache caché read-through de catálogo sobre Redis, con TTL.
// Solo cachea definiciones de producto: los saldos de stock se leen siempre
// de la base para no servir disponibilidad vieja.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewProductCache construye el caché de productos.
func NewProductCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ProductCache {
	return &ProductCache{client: client, ttl: ttl, log: log}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// Get devuelve el producto cacheado, o nil, nil en miss.
// Un error de Redis se trata como miss: el caller sigue a la base.
func (c *ProductCache) Get(ctx context.Context, id string) (*entity.Product, error) {
	data, err := c.client.Get(ctx, productKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("product_id", id).Msg("cache get falló, siguiendo a la base")
		}
		return nil, nil
	}
	var p entity.Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		// entrada corrupta: descartarla
		_ = c.client.Del(ctx, productKey(id)).Err()
		return nil, nil
	}
	return &p, nil
}

// Set guarda el producto con TTL.
func (c *ProductCache) Set(ctx context.Context, product *entity.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal producto para caché: %w", err)
	}
	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set producto: %w", err)
	}
	return nil
}

// Invalidate borra la entrada del producto (tras un update).
func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate producto: %w", err)
	}
	return nil
}
