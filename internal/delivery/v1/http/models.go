package http

import (
	"time"

	"github.com/DRSN-tech/store/internal/usecase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest — тело POST /products. Все поля обязательны.
type CreateProductRequest struct {
	Name     *string          `json:"name" example:"Shirt"`
	Quantity *int             `json:"quantity" example:"10"`
	Price    *decimal.Decimal `json:"price" swaggertype:"number" example:"7500.00"`
	Status   *bool            `json:"status" example:"true"`
}

// UpdateProductRequest — тело PATCH /products/{id}. Отсутствующее поле и null не изменяют продукт.
type UpdateProductRequest struct {
	Name     *string          `json:"name,omitempty" example:"Shirt"`
	Quantity *int             `json:"quantity,omitempty" example:"3"`
	Price    *decimal.Decimal `json:"price,omitempty" swaggertype:"number" example:"6000"`
	Status   *bool            `json:"status,omitempty" example:"false"`
}

type ProductResponse struct {
	ID        uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func NewProductResponse(p *usecase.ProductOut) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewArrProductResponse(products []usecase.ProductOut) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = *NewProductResponse(&products[i])
	}

	return res
}
