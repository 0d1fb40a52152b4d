package converter

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Quantity  int       `db:"quantity"`
	Price     float64   `db:"price"`
	Status    bool      `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
