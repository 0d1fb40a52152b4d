package converter

import (
	"github.com/DRSN-tech/store/internal/domain"
	"github.com/google/uuid"
)

// ProductConverter преобразует Product между domain и документом MongoDB.
type ProductConverter struct{}

func (ProductConverter) ToDocument(entity *domain.Product) *ProductDocument {
	return &ProductDocument{
		ID:        entity.ID.String(),
		Name:      entity.Name,
		Quantity:  entity.Quantity,
		Price:     entity.Price,
		Status:    entity.Status,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (ProductConverter) ToEntity(doc *ProductDocument) (*domain.Product, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		ID:        id,
		Name:      doc.Name,
		Quantity:  doc.Quantity,
		Price:     doc.Price,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}, nil
}

func (c ProductConverter) ToArrEntity(docs []ProductDocument) ([]domain.Product, error) {
	res := make([]domain.Product, 0, len(docs))
	for i := range docs {
		entity, err := c.ToEntity(&docs[i])
		if err != nil {
			return nil, err
		}
		res = append(res, *entity)
	}

	return res, nil
}
