package usecase

import (
	"time"

	"github.com/DRSN-tech/store/internal/domain"
	"github.com/google/uuid"
)

// PRODUCT USECASE

// CreateProductReq — запрос на создание продукта. Все поля обязательны.
type CreateProductReq struct {
	Name     string
	Quantity int
	Price    float64
	Status   bool
}

// UpdateProductReq — частичное обновление. Nil означает «поле не передано».
type UpdateProductReq struct {
	Name     *string
	Quantity *int
	Price    *float64
	Status   *bool
}

// QueryProductsReq — границы цены для выборки; nil заменяется значением по умолчанию.
type QueryProductsReq struct {
	PriceMin *float64
	PriceMax *float64
}

// ProductOut — представление продукта для внешнего использования.
type ProductOut struct {
	ID        uuid.UUID
	Name      string
	Quantity  int
	Price     float64
	Status    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EVENTS

type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent — событие об изменении продукта. Product пуст для удаления.
type ProductEvent struct {
	EventID    string
	Type       ProductEventType
	ProductID  uuid.UUID
	OccurredAt time.Time
	Product    *ProductOut
}

// MAPPERS

func NewCreateProductReq(name string, quantity int, price float64, status bool) *CreateProductReq {
	return &CreateProductReq{
		Name:     name,
		Quantity: quantity,
		Price:    price,
		Status:   status,
	}
}

func NewQueryProductsReq(priceMin, priceMax *float64) *QueryProductsReq {
	return &QueryProductsReq{
		PriceMin: priceMin,
		PriceMax: priceMax,
	}
}

func NewProductOut(p *domain.Product) *ProductOut {
	return &ProductOut{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewArrProductOut(products []domain.Product) []ProductOut {
	res := make([]ProductOut, len(products))
	for i := range products {
		res[i] = *NewProductOut(&products[i])
	}

	return res
}

func NewProductEvent(eventType ProductEventType, productID uuid.UUID, occurredAt time.Time, product *ProductOut) *ProductEvent {
	return &ProductEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: occurredAt,
		Product:    product,
	}
}
