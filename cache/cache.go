// Package cache puts a Redis read-through layer in front of the product catalog.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const genKey = "catalog:gen"

// ProductCache decorates a store.ProductStore. Single products are cached under their id;
// list and category results are cached under a generation number that every write bumps.
type ProductCache struct {
	store.ProductStore
	rdb *redis.Client
	ttl time.Duration
}

var _ store.ProductStore = (*ProductCache)(nil)

func NewProductCache(next store.ProductStore, rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{ProductStore: next, rdb: rdb, ttl: ttl}
}

func productKey(id string) string {
	return fmt.Sprintf("catalog:product:%s", id)
}

func (c *ProductCache) generation(ctx context.Context) int64 {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("catalog cache: read generation")
	}
	return gen
}

func (c *ProductCache) listKey(ctx context.Context, f models.ProductFilter) string {
	raw, _ := json.Marshal(f)
	sum := sha1.Sum(raw)
	return fmt.Sprintf("catalog:list:%d:%s", c.generation(ctx), hex.EncodeToString(sum[:]))
}

func (c *ProductCache) categoriesKey(ctx context.Context) string {
	return fmt.Sprintf("catalog:categories:%d", c.generation(ctx))
}

// load returns true when key was present and decoded into dst.
func (c *ProductCache) load(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("catalog cache: get")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache: decode")
		return false
	}
	return true
}

func (c *ProductCache) save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache: set")
	}
}

func (c *ProductCache) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if c.load(ctx, productKey(id), &p) {
		return &p, nil
	}
	fresh, err := c.ProductStore.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	c.save(ctx, productKey(id), fresh)
	return fresh, nil
}

func (c *ProductCache) ListProducts(ctx context.Context, f models.ProductFilter) (models.PageResult[models.Product], error) {
	key := c.listKey(ctx, f)
	var res models.PageResult[models.Product]
	if c.load(ctx, key, &res) {
		return res, nil
	}
	res, err := c.ProductStore.ListProducts(ctx, f)
	if err != nil {
		return res, err
	}
	c.save(ctx, key, res)
	return res, nil
}

func (c *ProductCache) Categories(ctx context.Context) ([]models.Category, error) {
	key := c.categoriesKey(ctx)
	var categories []models.Category
	if c.load(ctx, key, &categories) {
		return categories, nil
	}
	categories, err := c.ProductStore.Categories(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, categories)
	return categories, nil
}

func (c *ProductCache) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := c.ProductStore.CreateProduct(ctx, p); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *ProductCache) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := c.ProductStore.UpdateProduct(ctx, p); err != nil {
		return err
	}
	c.Invalidate(ctx, p.ID)
	return nil
}

func (c *ProductCache) DeleteProduct(ctx context.Context, id string) error {
	if err := c.ProductStore.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx, id)
	return nil
}

// Invalidate drops the given products and retires every cached listing. Checkout calls it
// after stock changes that bypass this decorator.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...string) {
	pipe := c.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, productKey(id))
	}
	pipe.Incr(ctx, genKey)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Strs("products", ids).Msg("catalog cache: invalidate")
	}
}
