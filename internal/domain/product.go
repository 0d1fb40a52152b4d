package domain

import (
	"time"

	"github.com/google/uuid"
)

// Имена полей документа продукта, общие для всех хранилищ.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldQuantity  = "quantity"
	FieldPrice     = "price"
	FieldStatus    = "status"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Product описывает продукт
type Product struct {
	ID        uuid.UUID
	Name      string
	Quantity  int
	Price     float64
	Status    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct создаёт продукт с новым идентификатором; created_at и updated_at равны now.
func NewProduct(id uuid.UUID, name string, quantity int, price float64, status bool, now time.Time) *Product {
	return &Product{
		ID:        id,
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
