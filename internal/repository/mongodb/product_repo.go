package mongodb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/store/internal/domain"
	"github.com/DRSN-tech/store/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepo реализует коллекцию продуктов поверх MongoDB.
type ProductRepo struct {
	coll *mongo.Collection
	conv converter.ProductConverter
}

func NewProductRepo(coll *mongo.Collection, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		coll: coll,
		conv: conv,
	}
}

// EnsureIndexes создаёт уникальный индекс по id и индекс по цене для выборок по диапазону.
func (p *ProductRepo) EnsureIndexes(ctx context.Context) error {
	_, err := p.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: domain.FieldID, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("products_id_unique"),
		},
		{
			Keys:    bson.D{{Key: domain.FieldPrice, Value: 1}},
			Options: options.Index().SetName("products_price"),
		},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *ProductRepo) InsertOne(ctx context.Context, product *domain.Product) error {
	if _, err := p.coll.InsertOne(ctx, p.conv.ToDocument(product)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *ProductRepo) FindOne(ctx context.Context, filter domain.ProductFilter) (*domain.Product, error) {
	var doc converter.ProductDocument
	if err := p.coll.FindOne(ctx, buildFilter(filter)).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}

	product, err := p.conv.ToEntity(&doc)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

// Find полностью вычитывает курсор до возврата результата.
func (p *ProductRepo) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	cursor, err := p.coll.Find(ctx, buildFilter(filter))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]converter.ProductDocument, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := p.conv.ToArrEntity(docs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}

// FindOneAndUpdate применяет $set и возвращает документ после обновления.
func (p *ProductRepo) FindOneAndUpdate(ctx context.Context, filter domain.ProductFilter, update domain.ProductUpdate) (*domain.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc converter.ProductDocument
	if err := p.coll.FindOneAndUpdate(ctx, buildFilter(filter), buildUpdate(update), opts).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}

	product, err := p.conv.ToEntity(&doc)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

func (p *ProductRepo) DeleteOne(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	res, err := p.coll.DeleteOne(ctx, buildFilter(filter))
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return res.DeletedCount, nil
}

// buildFilter переводит фильтр в BSON: равенство по id и открытый интервал цены.
func buildFilter(f domain.ProductFilter) bson.D {
	filter := bson.D{}

	if f.ID != nil {
		filter = append(filter, bson.E{Key: domain.FieldID, Value: f.ID.String()})
	}

	if f.Price != nil {
		filter = append(filter, bson.E{Key: domain.FieldPrice, Value: bson.D{
			{Key: "$gt", Value: f.Price.Gt},
			{Key: "$lt", Value: f.Price.Lt},
		}})
	}

	return filter
}

// buildUpdate строит $set только из переданных полей.
func buildUpdate(u domain.ProductUpdate) bson.D {
	fields := u.Fields()
	set := make(bson.D, 0, len(fields))
	for _, f := range fields {
		set = append(set, bson.E{Key: f.Name, Value: f.Value})
	}

	return bson.D{{Key: "$set", Value: set}}
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return e.ErrNoDocuments
	}

	return e.Wrap(whereami.WhereAmI(), err)
}
