package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	labeladapters "label_detection/internal/feature/labeldetection/adapters"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// ErrUnknownDriver は未対応のDB_DRIVERが指定された場合のエラーです。
var ErrUnknownDriver = errors.New("unknown database driver")

// Config はデータベース接続設定です。Driverが空の場合、履歴機能は無効になります。
type Config struct {
	Driver     string
	User       string
	Password   string
	Name       string
	Host       string
	Port       string
	SQLitePath string
	Migrate    bool
}

// Opener はDSNからDB接続を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver:     os.Getenv("DB_DRIVER"),
		User:       os.Getenv("DB_USER"),
		Password:   os.Getenv("DB_PASSWORD"),
		Name:       os.Getenv("DB_NAME"),
		Host:       os.Getenv("DB_HOST"),
		Port:       os.Getenv("DB_PORT"),
		SQLitePath: os.Getenv("DB_SQLITE_PATH"),
		Migrate:    os.Getenv("RUN_MIGRATIONS") == "true",
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "label_detection.db"
	}
	return cfg
}

// Enabled はDBが設定されているかどうかを返します。
func (c Config) Enabled() bool {
	return c.Driver != ""
}

// BuildDSN はドライバーに応じたDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		return cfg.SQLitePath
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
}

// ValidateDSN は接続前にPostgreSQLのDSNを検証します。
func ValidateDSN(dsn string) error {
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return fmt.Errorf("invalid postgres dsn: %w", err)
	}
	return nil
}

// OpenerFor はドライバーに対応するOpenerを返します。
func OpenerFor(driver string) (Opener, error) {
	switch driver {
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		}, nil
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// ConnectWithRetry はtimeoutに達するまでretryInterval間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定に従って接続し、RUN_MIGRATIONSが有効ならマイグレーションを実行します。
func OpenDB(cfg Config) (*gorm.DB, error) {
	open, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn := BuildDSN(cfg)
	if cfg.Driver == DriverPostgres {
		if err := ValidateDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := ConnectWithRetry(dsn, connectTimeout, open)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate {
		if err := db.AutoMigrate(&labeladapters.RunModel{}); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}
