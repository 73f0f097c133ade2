package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Search   SearchConfig
	Index    IndexConfig
	Reindex  ReindexConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins string
}

// StorageConfig - выбор хранилища: postgres | sqlite | memory
type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsDir   string
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// Addr - host:port для клиента Redis
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CacheConfig struct {
	SearchCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
}

// SearchConfig - ограничения поиска по полигону
type SearchConfig struct {
	DefaultMaxRows int
	MaxRowsLimit   int
	ScanLimit      int
	MaxCells       int
	CellOverflow   string
}

// IndexConfig - параметры построения пространственного поля
type IndexConfig struct {
	IncludeLeafToken bool
}

type ReindexConfig struct {
	PageSize int
	LockTTL  time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// .env необязателен: в контейнере всё приходит из окружения
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	setDefaults()

	cfg := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("API_HOST"),
			Port:         viper.GetInt("API_PORT"),
			Env:          viper.GetString("API_ENV"),
			AllowOrigins: viper.GetString("API_ALLOW_ORIGINS"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
			MigrationsDir:   viper.GetString("DB_MIGRATIONS_DIR"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("SQLITE_PATH"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
		},
		Cache: CacheConfig{
			SearchCacheTTL: time.Duration(viper.GetInt("SEARCH_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
		},
		Search: SearchConfig{
			DefaultMaxRows: viper.GetInt("SEARCH_DEFAULT_MAX_ROWS"),
			MaxRowsLimit:   viper.GetInt("SEARCH_MAX_ROWS_LIMIT"),
			ScanLimit:      viper.GetInt("SEARCH_SCAN_LIMIT"),
			MaxCells:       viper.GetInt("SEARCH_MAX_CELLS"),
			CellOverflow:   viper.GetString("SEARCH_CELL_OVERFLOW"),
		},
		Index: IndexConfig{
			IncludeLeafToken: viper.GetBool("INDEX_INCLUDE_LEAF_TOKEN"),
		},
		Reindex: ReindexConfig{
			PageSize: viper.GetInt("REINDEX_PAGE_SIZE"),
			LockTTL:  time.Duration(viper.GetInt("REINDEX_LOCK_TTL")) * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("API_HOST", "0.0.0.0")
	viper.SetDefault("API_PORT", 8080)
	viper.SetDefault("API_ENV", "development")
	viper.SetDefault("API_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	viper.SetDefault("STORAGE_DRIVER", "postgres")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 20)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	viper.SetDefault("SQLITE_PATH", "locations.db")
	viper.SetDefault("REDIS_ENABLED", true)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("SEARCH_CACHE_TTL", 30)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("WORKER_ENABLED", true)
	viper.SetDefault("WORKER_CONSUMER_GROUP", "location-reindex-workers")
	viper.SetDefault("SEARCH_DEFAULT_MAX_ROWS", 100)
	viper.SetDefault("SEARCH_MAX_ROWS_LIMIT", 1000)
	viper.SetDefault("SEARCH_SCAN_LIMIT", 1023)
	viper.SetDefault("SEARCH_MAX_CELLS", 16)
	viper.SetDefault("SEARCH_CELL_OVERFLOW", "truncate")
	viper.SetDefault("INDEX_INCLUDE_LEAF_TOKEN", false)
	viper.SetDefault("REINDEX_PAGE_SIZE", 100)
	viper.SetDefault("REINDEX_LOCK_TTL", 3600)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_PATH", "/metrics")
}

// Validate - проверка согласованности значений
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Search.CellOverflow {
	case "truncate", "fail":
	default:
		return fmt.Errorf("SEARCH_CELL_OVERFLOW must be truncate or fail, got %q", c.Search.CellOverflow)
	}
	if c.Search.DefaultMaxRows <= 0 || c.Search.DefaultMaxRows > c.Search.MaxRowsLimit {
		return fmt.Errorf("SEARCH_DEFAULT_MAX_ROWS must be in [1, %d]", c.Search.MaxRowsLimit)
	}
	if c.Search.ScanLimit <= 0 || c.Search.MaxCells <= 0 {
		return fmt.Errorf("SEARCH_SCAN_LIMIT and SEARCH_MAX_CELLS must be positive")
	}
	if c.Reindex.PageSize <= 0 {
		return fmt.Errorf("REINDEX_PAGE_SIZE must be positive")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN - строка подключения в формате key=value
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
