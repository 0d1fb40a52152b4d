package converter

import (
	"github.com/DRSN-tech/store/internal/domain"
	"github.com/google/uuid"
)

// ProductConverter преобразует Product между domain и моделью кэша.
type ProductConverter struct{}

func (ProductConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:        entity.ID.String(),
		Name:      entity.Name,
		Quantity:  entity.Quantity,
		Price:     entity.Price,
		Status:    entity.Status,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (ProductConverter) ToEntity(model *ProductRedisModel) (*domain.Product, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		ID:        id,
		Name:      model.Name,
		Quantity:  model.Quantity,
		Price:     model.Price,
		Status:    model.Status,
		CreatedAt: model.CreatedAt.UTC(),
		UpdatedAt: model.UpdatedAt.UTC(),
	}, nil
}
