package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Поддерживаемые хранилища продуктов.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	App     *AppCfg
	Http    *HTTPConfig
	Grpc    *GRPCConfig
	Storage *StorageCfg
	Mongo   *MongoCfg
	Db      *PGDBCfg
	Redis   *RedisCfg
	Kafka   *KafkaCfg
}

type AppCfg struct {
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type HTTPConfig struct {
	Port         string        `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout  time.Duration `envconfig:"KEEP_ALIVE" default:"60s"`
}

type GRPCConfig struct {
	Port        string `envconfig:"GRPC_PORT" default:"8091"`
	NetworkMode string `envconfig:"GRPC_NETWORK_MODE" default:"tcp"`
}

type StorageCfg struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"mongo"`
}

type MongoCfg struct {
	URI            string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database       string        `envconfig:"MONGO_DATABASE" default:"store"`
	Collection     string        `envconfig:"MONGO_COLLECTION" default:"products"`
	ConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
}

type PGDBCfg struct {
	Host          string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port          string `envconfig:"POSTGRES_PORT" default:"5432"`
	User          string `envconfig:"POSTGRES_USER"`
	Password      string `envconfig:"POSTGRES_PASSWORD"`
	DBName        string `envconfig:"POSTGRES_DB"`
	SSLMode       string `envconfig:"SSL_MODE" default:"disable"`
	MigrationsURL string `envconfig:"MIGRATIONS_URL" default:"file://db/migrations"`
}

// DSN собирает строку подключения в формате key=value.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisCfg описывает подключение к Redis. Пустой Addr отключает кэш.
type RedisCfg struct {
	Addr         string        `envconfig:"REDIS_ADDR"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	User         string        `envconfig:"REDIS_USER"`
	DB           int           `envconfig:"REDIS_DB_ID" default:"0"`
	MaxRetries   int           `envconfig:"MAX_RETRIES" default:"3"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
	ProductTTL   time.Duration `envconfig:"PRODUCT_TTL" default:"3m"`
}

func (c *RedisCfg) Enabled() bool {
	return c.Addr != ""
}

// KafkaCfg описывает публикацию событий. Пустой список брокеров отключает события.
type KafkaCfg struct {
	Topic             string   `envconfig:"KAFKA_TOPIC" default:"product-events"`
	Brokers           []string `envconfig:"KAFKA_BROKERS"`
	NetworkMode       string   `envconfig:"KAFKA_NETWORK_MODE" default:"tcp"`
	Partitions        int      `envconfig:"KAFKA_PARTITIONS" default:"3"`
	ReplicationFactor int      `envconfig:"REPLICATION_FACTOR" default:"1"`
}

func (c *KafkaCfg) Enabled() bool {
	return len(c.Brokers) > 0
}

// Load загружает env-файлы (по умолчанию .env, отсутствие файла не ошибка) и переменные окружения.
// Уже заданные переменные окружения не перезаписываются.
func Load(log logger.Logger, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("Error loading .env file (but continuing): %v", err)
		}
	} else {
		log.Infof("Loaded configuration from .env file")
	}

	config := &Config{
		App:     &AppCfg{},
		Http:    &HTTPConfig{},
		Grpc:    &GRPCConfig{},
		Storage: &StorageCfg{},
		Mongo:   &MongoCfg{},
		Db:      &PGDBCfg{},
		Redis:   &RedisCfg{},
		Kafka:   &KafkaCfg{},
	}

	sections := []any{
		config.App, config.Http, config.Grpc, config.Storage,
		config.Mongo, config.Db, config.Redis, config.Kafka,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			log.Errorf(err, "failed to process configuration from environment variables")
			return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrIncorrectEnvVariable, err))
		}
	}

	if err := config.validate(); err != nil {
		log.Errorf(err, "invalid configuration")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	log.Infof("Configuration loaded: storage=%s, http_port=%s, grpc_port=%s, cache=%t, events=%t",
		config.Storage.Driver, config.Http.Port, config.Grpc.Port, config.Redis.Enabled(), config.Kafka.Enabled())

	return config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMongo:
		return nil
	case DriverPostgres:
		return c.Db.Validate()
	default:
		return fmt.Errorf("%w: %q", e.ErrUnknownStorageDriver, c.Storage.Driver)
	}
}

// Validate проверяет, что заданы обязательные параметры подключения.
func (c *PGDBCfg) Validate() error {
	required := []struct{ key, value string }{
		{"POSTGRES_USER", c.User},
		{"POSTGRES_PASSWORD", c.Password},
		{"POSTGRES_DB", c.DBName},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", e.ErrIncorrectEnvVariable, r.key)
		}
	}

	return nil
}
