package usecase

import (
	"context"

	"github.com/google/uuid"
)

type ProductUC interface {
	Create(ctx context.Context, req *CreateProductReq) (*ProductOut, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductOut, error)
	Query(ctx context.Context, req *QueryProductsReq) ([]ProductOut, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateProductReq) (*ProductOut, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
