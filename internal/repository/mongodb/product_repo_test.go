package mongodb

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/DRSN-tech/store/internal/domain"
	"github.com/DRSN-tech/store/internal/repository/mongodb/converter"
)

func ptr[T any](v T) *T { return &v }

func TestBuildFilter(t *testing.T) {
	id := uuid.MustParse("7f1c8a8e-2f53-4b43-9a59-1c4d6d5f0e21")

	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   bson.D
	}{
		{
			name:   "empty",
			filter: domain.ProductFilter{},
			want:   bson.D{},
		},
		{
			name:   "by id",
			filter: domain.ByID(id),
			want:   bson.D{{Key: "id", Value: "7f1c8a8e-2f53-4b43-9a59-1c4d6d5f0e21"}},
		},
		{
			name:   "by price range",
			filter: domain.ByPriceRange(5000, 8000),
			want: bson.D{{Key: "price", Value: bson.D{
				{Key: "$gt", Value: float64(5000)},
				{Key: "$lt", Value: float64(8000)},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.New(t).Assert(buildFilter(tt.filter), qt.DeepEquals, tt.want)
		})
	}
}

func TestBuildUpdateSetsOnlySuppliedFields(t *testing.T) {
	c := qt.New(t)
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	got := buildUpdate(domain.ProductUpdate{Quantity: ptr(0), Status: ptr(false), UpdatedAt: at})

	c.Assert(got, qt.DeepEquals, bson.D{{Key: "$set", Value: bson.D{
		{Key: "quantity", Value: 0},
		{Key: "status", Value: false},
		{Key: "updated_at", Value: at},
	}}})
}

func TestBuildUpdateAlwaysRefreshesUpdatedAt(t *testing.T) {
	c := qt.New(t)
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	got := buildUpdate(domain.ProductUpdate{UpdatedAt: at})

	c.Assert(got, qt.DeepEquals, bson.D{{Key: "$set", Value: bson.D{
		{Key: "updated_at", Value: at},
	}}})
}

func TestDocumentRoundTripKeepsMilliseconds(t *testing.T) {
	c := qt.New(t)
	conv := converter.ProductConverter{}

	at := time.Date(2026, 10, 14, 9, 0, 0, 123_000_000, time.UTC)
	product := domain.NewProduct(uuid.New(), "Shirt", 10, 7500.5, true, at)

	raw, err := bson.Marshal(conv.ToDocument(product))
	c.Assert(err, qt.IsNil)

	var doc converter.ProductDocument
	c.Assert(bson.Unmarshal(raw, &doc), qt.IsNil)

	got, err := conv.ToEntity(&doc)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, product)
}

func TestToEntityRejectsMalformedID(t *testing.T) {
	c := qt.New(t)

	_, err := converter.ProductConverter{}.ToEntity(&converter.ProductDocument{ID: "not-a-uuid"})
	c.Assert(err, qt.IsNotNil)
}
