package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	DBDriver    string // memory/postgres/sqlite
	DatabaseURL string // あれば POSTGRES_* より優先

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	SQLitePath string

	JWTSecret             string // JWT署名シークレット
	AccessTokenTTLMinutes int

	SeedCatalog bool // 空のときに初期在庫を入れる

	RabbitMQURL      string // 空なら送らない
	RabbitMQExchange string

	LogLevel string

	AdminUsername string // 起動時に作る管理者（任意）
	AdminPassword string
}

func (c Config) IsDev() bool {
	return c.GoEnv == "" || c.GoEnv == "dev"
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	ttl, err := atoiOr("ACCESS_TOKEN_TTL_MINUTES", 60)
	if err != nil {
		return Config{}, err
	}
	seed, err := boolOr("SEED_CATALOG", true)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", DriverMemory)),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		SQLitePath: getenv("SQLITE_PATH", "bookstore.db"),

		JWTSecret:             os.Getenv("JWT_SECRET"),
		AccessTokenTTLMinutes: ttl,

		SeedCatalog: seed,

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getenv("RABBITMQ_EXCHANGE", "bookstore_events"),

		LogLevel: getenv("LOG_LEVEL", "info"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	//必須チェック
	switch cfg.DBDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			if cfg.PostgresUser == "" {
				return Config{}, fmt.Errorf("POSTGRES_USER is required")
			}
			if cfg.PostgresPassword == "" {
				return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
			}
			if cfg.PostgresDB == "" {
				return Config{}, fmt.Errorf("POSTGRES_DB is required")
			}
		}
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be one of memory, postgres, sqlite: %q", cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		// 開発用の固定値
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.AccessTokenTTLMinutes <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL_MINUTES must be positive")
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// PostgresDSN は DATABASE_URL があればそれを返す
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}
