package cfg_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DRSN-tech/store/internal/cfg"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/logger"
	qt "github.com/frankban/quicktest"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"STORAGE_DRIVER", "HTTP_PORT", "HTTP_READ_TIMEOUT", "KEEP_ALIVE",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"REDIS_ADDR", "PRODUCT_TTL", "KAFKA_BROKERS", "KAFKA_TOPIC", "LOG_LEVEL",
	} {
		// Setenv восстановит исходное значение после теста
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)
	clearEnv(t)

	config, err := cfg.Load(logger.NewNopLogger())
	c.Assert(err, qt.IsNil)

	c.Check(config.Storage.Driver, qt.Equals, cfg.DriverMongo)
	c.Check(config.Http.Port, qt.Equals, "8080")
	c.Check(config.Http.ReadTimeout, qt.Equals, 5*time.Second)
	c.Check(config.Http.IdleTimeout, qt.Equals, 60*time.Second)
	c.Check(config.Grpc.Port, qt.Equals, "8091")
	c.Check(config.Mongo.URI, qt.Equals, "mongodb://localhost:27017")
	c.Check(config.Mongo.Collection, qt.Equals, "products")
	c.Check(config.Redis.ProductTTL, qt.Equals, 3*time.Minute)
	c.Check(config.Redis.Enabled(), qt.IsFalse)
	c.Check(config.Kafka.Enabled(), qt.IsFalse)
	c.Check(config.Kafka.Topic, qt.Equals, "product-events")
	c.Check(config.App.LogLevel, qt.Equals, "info")
	c.Check(config.App.ShutdownTimeout, qt.Equals, 10*time.Second)
}

func TestLoadOverrides(t *testing.T) {
	c := qt.New(t)
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("PRODUCT_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	config, err := cfg.Load(logger.NewNopLogger())
	c.Assert(err, qt.IsNil)

	c.Check(config.Http.Port, qt.Equals, "9999")
	c.Check(config.Redis.Enabled(), qt.IsTrue)
	c.Check(config.Redis.ProductTTL, qt.Equals, 30*time.Second)
	c.Check(config.Kafka.Brokers, qt.DeepEquals, []string{"k1:9092", "k2:9092"})
}

func TestLoadPostgres(t *testing.T) {
	c := qt.New(t)
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := cfg.Load(logger.NewNopLogger())
	c.Assert(err, qt.ErrorIs, e.ErrIncorrectEnvVariable)
	c.Assert(err, qt.ErrorMatches, ".*POSTGRES_USER is required.*")

	t.Setenv("POSTGRES_USER", "store")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "store")

	config, err := cfg.Load(logger.NewNopLogger())
	c.Assert(err, qt.IsNil)
	c.Check(config.Db.DSN(), qt.Equals,
		"host=localhost port=5432 user=store password=secret dbname=store sslmode=disable")
	c.Check(config.Db.MigrationsURL, qt.Equals, "file://db/migrations")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	c := qt.New(t)
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := cfg.Load(logger.NewNopLogger())
	c.Assert(err, qt.ErrorIs, e.ErrUnknownStorageDriver)
}

func TestLoadRejectsMalformedValue(t *testing.T) {
	c := qt.New(t)
	clearEnv(t)
	t.Setenv("KEEP_ALIVE", "forever")

	_, err := cfg.Load(logger.NewNopLogger())
	c.Assert(err, qt.ErrorIs, e.ErrIncorrectEnvVariable)
}

func TestLoadEnvFile(t *testing.T) {
	c := qt.New(t)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	c.Assert(os.WriteFile(path, []byte("HTTP_PORT=7070\nKAFKA_TOPIC=audit\n"), 0o600), qt.IsNil)

	config, err := cfg.Load(logger.NewNopLogger(), path)
	c.Assert(err, qt.IsNil)
	c.Check(config.Http.Port, qt.Equals, "7070")
	c.Check(config.Kafka.Topic, qt.Equals, "audit")
}

func TestLoadMissingEnvFileIsNotAnError(t *testing.T) {
	c := qt.New(t)
	clearEnv(t)

	_, err := cfg.Load(logger.NewNopLogger(), filepath.Join(t.TempDir(), "absent.env"))
	c.Assert(err, qt.IsNil)
}
