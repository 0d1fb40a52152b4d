package usecase

import (
	"context"

	"github.com/DRSN-tech/store/internal/domain"
	"github.com/google/uuid"
)

// ProductRepository — коллекция документов продукта, адресуемых по полю id.
// Отсутствие документа сообщается ошибкой e.ErrNoDocuments.
type ProductRepository interface {
	InsertOne(ctx context.Context, product *domain.Product) error
	FindOne(ctx context.Context, filter domain.ProductFilter) (*domain.Product, error)
	Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	FindOneAndUpdate(ctx context.Context, filter domain.ProductFilter, update domain.ProductUpdate) (*domain.Product, error)
	DeleteOne(ctx context.Context, filter domain.ProductFilter) (int64, error)
}

// Transactor выполняет fn так, чтобы проверка существования и последующая мутация
// внутри fn не разделялись конкурентной записью.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheRepository — кэш продуктов по id.
type CacheRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// PassThroughTx — Transactor для хранилищ, где мутации по id атомарны сами по себе.
type PassThroughTx struct{}

func (PassThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// nopCache используется, когда кэш не сконфигурирован: всегда промах.
type nopCache struct{}

func (nopCache) GetProduct(context.Context, uuid.UUID) (*domain.Product, error) { return nil, nil }
func (nopCache) SetProduct(context.Context, *domain.Product) error             { return nil }
func (nopCache) DeleteProduct(context.Context, uuid.UUID) error                 { return nil }
