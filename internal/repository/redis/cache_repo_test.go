package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	r "github.com/redis/go-redis/v9"

	"github.com/DRSN-tech/store/internal/cfg"
	"github.com/DRSN-tech/store/internal/domain"
	"github.com/DRSN-tech/store/internal/repository/redis/converter"
	"github.com/DRSN-tech/store/pkg/logger"
)

// fakeRedis хранит значения в памяти и отвечает так же, как go-redis.
type fakeRedis struct {
	data    map[string]string
	ttl     map[string]time.Duration
	deleted []string
	err     error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttl: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *r.StringCmd {
	if f.err != nil {
		return r.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return r.NewStringResult("", r.Nil)
	}
	return r.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *r.StatusCmd {
	if f.err != nil {
		return r.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttl[key] = expiration
	return r.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *r.IntCmd {
	if f.err != nil {
		return r.NewIntResult(0, f.err)
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
		f.deleted = append(f.deleted, key)
	}
	return r.NewIntResult(n, nil)
}

func newTestRepo(client *fakeRedis) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   converter.ProductConverter{},
		cfg:    &cfg.RedisCfg{ProductTTL: time.Minute},
		logger: logger.NewNopLogger(),
	}
}

func sampleProduct() *domain.Product {
	at := time.Date(2026, 10, 14, 9, 0, 0, 123_000_000, time.UTC)
	return domain.NewProduct(uuid.New(), "Shirt", 10, 7500, true, at)
}

func TestGetProductMiss(t *testing.T) {
	c := qt.New(t)
	repo := newTestRepo(newFakeRedis())

	got, err := repo.GetProduct(context.Background(), uuid.New())
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.IsNil)
}

func TestSetThenGetProduct(t *testing.T) {
	c := qt.New(t)
	client := newFakeRedis()
	repo := newTestRepo(client)
	product := sampleProduct()

	c.Assert(repo.SetProduct(context.Background(), product), qt.IsNil)
	c.Assert(client.ttl[productKey(product.ID)], qt.Equals, time.Minute)

	got, err := repo.GetProduct(context.Background(), product.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, product)

	c.Assert(repo.DeleteProduct(context.Background(), product.ID), qt.IsNil)
	got, err = repo.GetProduct(context.Background(), product.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.IsNil)
}

func TestGetProductEvictsGarbage(t *testing.T) {
	c := qt.New(t)
	client := newFakeRedis()
	repo := newTestRepo(client)

	id := uuid.New()
	client.data[productKey(id)] = "not json"

	got, err := repo.GetProduct(context.Background(), id)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.IsNil)
	c.Assert(client.deleted, qt.DeepEquals, []string{productKey(id)})
	c.Assert(client.data, qt.HasLen, 0)
}

func TestGetProductEvictsMismatchedID(t *testing.T) {
	c := qt.New(t)
	client := newFakeRedis()
	repo := newTestRepo(client)

	other := sampleProduct()
	data, err := repo.encode(other)
	c.Assert(err, qt.IsNil)

	id := uuid.New()
	client.data[productKey(id)] = string(data)

	got, err := repo.GetProduct(context.Background(), id)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.IsNil)
	c.Assert(client.deleted, qt.DeepEquals, []string{productKey(id)})
}

func TestCacheRepoReturnsRedisErrors(t *testing.T) {
	c := qt.New(t)
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	repo := newTestRepo(client)
	product := sampleProduct()

	_, err := repo.GetProduct(context.Background(), product.ID)
	c.Assert(err, qt.ErrorMatches, ".*connection refused")
	c.Assert(repo.SetProduct(context.Background(), product), qt.ErrorMatches, ".*connection refused")
	c.Assert(repo.DeleteProduct(context.Background(), product.ID), qt.ErrorMatches, ".*connection refused")
}

func TestProductKey(t *testing.T) {
	c := qt.New(t)

	id := uuid.MustParse("7f1c8a8e-2f53-4b43-9a59-1c4d6d5f0e21")
	c.Assert(productKey(id), qt.Equals, "product:7f1c8a8e-2f53-4b43-9a59-1c4d6d5f0e21")
}

func TestEncodeDecode(t *testing.T) {
	c := qt.New(t)
	repo := &CacheRepo{}

	at := time.Date(2026, 10, 14, 9, 0, 0, 123_000_000, time.UTC)
	product := domain.NewProduct(uuid.New(), "Shirt", 0, 7500.25, false, at)

	data, err := repo.encode(product)
	c.Assert(err, qt.IsNil)

	got, err := repo.decode(data)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, product)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c := qt.New(t)
	repo := &CacheRepo{}

	_, err := repo.decode([]byte(`{"id":"nope"}`))
	c.Assert(err, qt.IsNotNil)

	_, err = repo.decode([]byte(`not json`))
	c.Assert(err, qt.IsNotNil)
}
