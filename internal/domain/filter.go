package domain

import (
	"time"

	"github.com/google/uuid"
)

// PriceRange — открытый интервал цены: Gt < price < Lt.
type PriceRange struct {
	Gt float64
	Lt float64
}

// Contains проверяет попадание цены в интервал (обе границы строгие).
func (r PriceRange) Contains(price float64) bool {
	return price > r.Gt && price < r.Lt
}

// ProductFilter — выражение выборки документов продукта.
// Заданные условия объединяются через AND; пустой фильтр выбирает всё.
type ProductFilter struct {
	ID    *uuid.UUID
	Price *PriceRange
}

// ByID — фильтр по точному совпадению id.
func ByID(id uuid.UUID) ProductFilter {
	return ProductFilter{ID: &id}
}

// ByPriceRange — фильтр по открытому интервалу цены.
func ByPriceRange(gt, lt float64) ProductFilter {
	return ProductFilter{Price: &PriceRange{Gt: gt, Lt: lt}}
}

// Match применяет фильтр к продукту в памяти.
func (f ProductFilter) Match(p *Product) bool {
	if f.ID != nil && *f.ID != p.ID {
		return false
	}

	if f.Price != nil && !f.Price.Contains(p.Price) {
		return false
	}

	return true
}

// Field — пара поле/значение в наборе обновления.
type Field struct {
	Name  string
	Value any
}

// ProductUpdate — частичное обновление продукта. Nil-поля не изменяются,
// updated_at обновляется всегда.
type ProductUpdate struct {
	Name      *string
	Quantity  *int
	Price     *float64
	Status    *bool
	UpdatedAt time.Time
}

// Fields возвращает набор $set: только заданные поля в фиксированном порядке и updated_at последним.
func (u ProductUpdate) Fields() []Field {
	fields := make([]Field, 0, 5)

	if u.Name != nil {
		fields = append(fields, Field{Name: FieldName, Value: *u.Name})
	}
	if u.Quantity != nil {
		fields = append(fields, Field{Name: FieldQuantity, Value: *u.Quantity})
	}
	if u.Price != nil {
		fields = append(fields, Field{Name: FieldPrice, Value: *u.Price})
	}
	if u.Status != nil {
		fields = append(fields, Field{Name: FieldStatus, Value: *u.Status})
	}

	return append(fields, Field{Name: FieldUpdatedAt, Value: u.UpdatedAt})
}

// Apply сливает обновление с продуктом в памяти.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Status != nil {
		p.Status = *u.Status
	}

	p.UpdatedAt = u.UpdatedAt
}
