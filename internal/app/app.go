package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/store/internal/cfg"
	v1Grpc "github.com/DRSN-tech/store/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/store/internal/delivery/v1/http"
	"github.com/DRSN-tech/store/internal/infrastructure/kafka"
	"github.com/DRSN-tech/store/internal/repository/mongodb"
	mongoConv "github.com/DRSN-tech/store/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/store/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/store/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/store/internal/repository/redis"
	redisConv "github.com/DRSN-tech/store/internal/repository/redis/converter"
	"github.com/DRSN-tech/store/internal/usecase"
	"github.com/DRSN-tech/store/pkg/closer"
	"github.com/DRSN-tech/store/pkg/clients"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/logger"
	"github.com/DRSN-tech/store/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	healthInterval     = 10 * time.Second
	topicCreateTimeout = 10 * time.Second
	pingTimeout        = 5 * time.Second
)

// App — собранное приложение: серверы и ресурсы, закрываемые при остановке.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	probe   v1Grpc.Probe
}

// NewApp подключает хранилище и опциональные кэш и брокер, затем собирает usecase и серверы.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (_ *App, err error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}
	defer func() {
		if err != nil {
			a.shutdown()
		}
	}()

	productRepo, tx, err := a.initStorage(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cacheRepo, err := a.initCache(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	producer := a.initProducer()

	productUC := usecase.NewProductUC(productRepo, tx, cacheRepo, producer, log)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	router := v1Http.NewRouter(chi.NewRouter(), log)
	router.Init(productUC)

	a.httpSrv = v1Http.NewServer(router.Handler(), cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return a, nil
}

// Run запускает серверы и блокируется до сигнала остановки или ошибки сервера.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	monitorCtx, cancelMonitor := context.WithCancel(ctx)
	defer cancelMonitor()
	go a.grpcSrv.MonitorHealth(monitorCtx, a.probe, healthInterval)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-ctx.Done():
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	cancelMonitor()
	a.shutdown()

	return appErr
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		return
	}

	a.logger.Infof("Application shutdown complete")
}

// initStorage подключает выбранное хранилище и возвращает коллекцию продуктов с подходящим Transactor.
func (a *App) initStorage(ctx context.Context) (usecase.ProductRepository, usecase.Transactor, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := initPGDB(ctx, a.logger, a.cfg)
		if err != nil {
			return nil, nil, err
		}
		a.closer.AddFunc("postgres", func() error {
			db.Close()
			return nil
		})
		a.probe = db.Ping

		a.logger.Infof("Using PostgreSQL storage at %s:%s/%s", a.cfg.Db.Host, a.cfg.Db.Port, a.cfg.Db.DBName)
		return pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{}), pgdb.NewTxRunner(db.Pool, a.logger), nil

	default:
		client, err := clients.NewMongoClient(ctx, a.cfg.Mongo, a.logger)
		if err != nil {
			a.logger.Errorf(err, "failed to connect to mongodb")
			return nil, nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add("mongodb", client.Close)
		a.probe = client.Ping

		repo := mongodb.NewProductRepo(client.Collection(), mongoConv.ProductConverter{})
		if err := repo.EnsureIndexes(ctx); err != nil {
			a.logger.Errorf(err, "failed to create mongodb indexes")
			return nil, nil, e.Wrap(whereami.WhereAmI(), err)
		}

		a.logger.Infof("Using MongoDB storage %s.%s", a.cfg.Mongo.Database, a.cfg.Mongo.Collection)
		return repo, usecase.PassThroughTx{}, nil
	}
}

// initCache возвращает nil, если Redis не сконфигурирован.
func (a *App) initCache(ctx context.Context) (usecase.CacheRepository, error) {
	if !a.cfg.Redis.Enabled() {
		a.logger.Infof("Redis is not configured, product cache disabled")
		return nil, nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.AddFunc("redis", redisClient.Close)

	redisCtx, redisCancel := context.WithTimeout(ctx, pingTimeout)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return redis.NewCacheRepo(redisClient, redisConv.ProductConverter{}, a.cfg.Redis, a.logger), nil
}

// initProducer возвращает nil, если брокеры Kafka не заданы.
func (a *App) initProducer() usecase.EventProducer {
	if !a.cfg.Kafka.Enabled() {
		a.logger.Infof("Kafka is not configured, product events disabled")
		return nil
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.AddFunc("kafka producer", producer.Close)

	if err := producer.EnsureTopic(topicCreateTimeout); err != nil {
		a.logger.Warnf("Failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}

	return producer
}

// Migrate применяет миграции PostgreSQL и закрывает подключение.
func Migrate(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if err := cfg.Db.Validate(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := postgres.Connect(ctx, cfg.Db, log)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer db.Close()

	return db.RunMigrations(log)
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db, logger)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
