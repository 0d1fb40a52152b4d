package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/DRSN-tech/store/internal/domain"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/google/uuid"
)

// memCollection — коллекция продуктов в памяти, соблюдающая семантику фильтров.
type memCollection struct {
	mu        sync.Mutex
	docs      map[uuid.UUID]domain.Product
	mutations int

	insertErr error
	// beforeMutate вызывается перед FindOneAndUpdate и DeleteOne без удержания блокировки.
	beforeMutate func()
	// afterMutate вызывается после успешных FindOneAndUpdate и DeleteOne.
	afterMutate func()
	// afterFind вызывается после каждого FindOne без удержания блокировки.
	afterFind func()
}

func newMemCollection() *memCollection {
	return &memCollection{docs: make(map[uuid.UUID]domain.Product)}
}

func (m *memCollection) InsertOne(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.docs[product.ID]; ok {
		return errors.New("E11000 duplicate key error")
	}

	m.docs[product.ID] = *product
	m.mutations++
	return nil
}

func (m *memCollection) FindOne(_ context.Context, filter domain.ProductFilter) (*domain.Product, error) {
	product, err := m.findOne(filter)
	if m.afterFind != nil {
		m.afterFind()
	}

	return product, err
}

func (m *memCollection) findOne(filter domain.ProductFilter) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if filter.Match(&doc) {
			return &doc, nil
		}
	}

	return nil, e.ErrNoDocuments
}

func (m *memCollection) Find(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]domain.Product, 0)
	for _, doc := range m.docs {
		if filter.Match(&doc) {
			res = append(res, doc)
		}
	}

	return res, nil
}

func (m *memCollection) FindOneAndUpdate(_ context.Context, filter domain.ProductFilter, update domain.ProductUpdate) (*domain.Product, error) {
	if m.beforeMutate != nil {
		m.beforeMutate()
	}

	updated, err := m.findOneAndUpdate(filter, update)
	if err == nil && m.afterMutate != nil {
		m.afterMutate()
	}

	return updated, err
}

func (m *memCollection) findOneAndUpdate(filter domain.ProductFilter, update domain.ProductUpdate) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, doc := range m.docs {
		if filter.Match(&doc) {
			update.Apply(&doc)
			m.docs[id] = doc
			m.mutations++
			return &doc, nil
		}
	}

	return nil, e.ErrNoDocuments
}

func (m *memCollection) DeleteOne(_ context.Context, filter domain.ProductFilter) (int64, error) {
	if m.beforeMutate != nil {
		m.beforeMutate()
	}

	deleted := m.deleteOne(filter)
	if deleted > 0 && m.afterMutate != nil {
		m.afterMutate()
	}

	return deleted, nil
}

func (m *memCollection) deleteOne(filter domain.ProductFilter) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, doc := range m.docs {
		if filter.Match(&doc) {
			delete(m.docs, id)
			m.mutations++
			return 1
		}
	}

	return 0
}

func (m *memCollection) remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
}

func (m *memCollection) snapshot(id uuid.UUID) (domain.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	return doc, ok
}

func (m *memCollection) mutationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutations
}

type memCache struct {
	mu       sync.Mutex
	items    map[uuid.UUID]domain.Product
	deleted  []uuid.UUID
	getCalls int
}

func newMemCache() *memCache {
	return &memCache{items: make(map[uuid.UUID]domain.Product)}
}

// Методы memCache, как и Redis-клиент, не работают с отменённым контекстом.
func (c *memCache) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.getCalls++
	p, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *memCache) SetProduct(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[product.ID] = *product
	return nil
}

func (c *memCache) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.deleted = append(c.deleted, id)
	return nil
}

func (c *memCache) has(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id]
	return ok
}

type recordingProducer struct {
	mu     sync.Mutex
	events []ProductEvent
	err    error
}

func (r *recordingProducer) Publish(_ context.Context, event *ProductEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return r.err
}

func (r *recordingProducer) types() []ProductEventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]ProductEventType, len(r.events))
	for i, ev := range r.events {
		res[i] = ev.Type
	}
	return res
}

// countingTx считает вызовы Do.
type countingTx struct {
	mu    sync.Mutex
	calls int
}

func (t *countingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}
