package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/store/internal/cfg"
	"github.com/DRSN-tech/store/internal/domain"
	"github.com/DRSN-tech/store/internal/repository/redis/converter"
	"github.com/DRSN-tech/store/pkg/clients"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// commander — команды Redis, которыми пользуется кэш.
type commander interface {
	Get(ctx context.Context, key string) *r.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *r.StatusCmd
	Del(ctx context.Context, keys ...string) *r.IntCmd
}

type CacheRepo struct {
	client commander
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client.Client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProduct возвращает продукт из кэша. При промахе возвращает (nil, nil).
func (c *CacheRepo) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	key := productKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	product, err := c.decode(data)
	if err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		c.evict(ctx, key)
		return nil, nil // cache miss
	}

	if product.ID != id {
		c.logger.Warnf("Cache ID mismatch: key_id: %s, model_id: %s", id, product.ID)
		c.evict(ctx, key)
		return nil, nil // cache miss
	}

	return product, nil
}

// SetProduct кэширует продукт на ProductTTL.
func (c *CacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := c.encode(product)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Set(ctx, productKey(product.ID), data, c.cfg.ProductTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteProduct удаляет продукт из кэша по ID
func (c *CacheRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) evict(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

// encode сериализует продукт в JSON для кэша
func (c *CacheRepo) encode(product *domain.Product) ([]byte, error) {
	return json.Marshal(c.conv.ToRedisModel(product))
}

// decode десериализует JSON из кэша в продукт
func (c *CacheRepo) decode(data []byte) (*domain.Product, error) {
	var model converter.ProductRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return c.conv.ToEntity(&model)
}

// productKey возвращает Redis-ключ для одного продукта
func productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}
