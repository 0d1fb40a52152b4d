package clients

import (
	"context"
	"time"

	"github.com/DRSN-tech/store/internal/cfg"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/jitter"
	"github.com/DRSN-tech/store/pkg/logger"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// startupPolicy — повторы подключения при старте, пока БД поднимается рядом с сервисом.
var startupPolicy = jitter.Policy{
	Attempts: 5,
	Base:     500 * time.Millisecond,
	Max:      5 * time.Second,
	Jitter:   jitter.DefaultJitter,
}

type MongoClient struct {
	Client *mongo.Client
	cfg    *cfg.MongoCfg
}

// NewMongoClient подключается к MongoDB и дожидается успешного ping.
func NewMongoClient(ctx context.Context, cfg *cfg.MongoCfg, log logger.Logger) (*MongoClient, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	mc := &MongoClient{Client: client, cfg: cfg}

	err = jitter.Retry(ctx, startupPolicy, func(ctx context.Context) error {
		if err := mc.Ping(ctx); err != nil {
			log.Warnf("MongoDB is not ready yet: %v", err)
			return err
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return mc, nil
}

// Collection возвращает коллекцию продуктов из конфигурации.
func (m *MongoClient) Collection() *mongo.Collection {
	return m.Client.Database(m.cfg.Database).Collection(m.cfg.Collection)
}

func (m *MongoClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (m *MongoClient) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
