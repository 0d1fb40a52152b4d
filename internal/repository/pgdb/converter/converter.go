package converter

import "github.com/DRSN-tech/store/internal/domain"

// ProductConverter преобразует Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func (ProductConverter) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:        entity.ID,
		Name:      entity.Name,
		Quantity:  entity.Quantity,
		Price:     entity.Price,
		Status:    entity.Status,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

// ToEntity переводит время в UTC: pgx возвращает timestamptz в локальной зоне.
func (ProductConverter) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:        model.ID,
		Name:      model.Name,
		Quantity:  model.Quantity,
		Price:     model.Price,
		Status:    model.Status,
		CreatedAt: model.CreatedAt.UTC(),
		UpdatedAt: model.UpdatedAt.UTC(),
	}
}
