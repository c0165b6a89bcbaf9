package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Venue    VenueConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// VenueConfig は会場レイアウトと予約上限の設定
// 座席割り当てアルゴリズムの定数ではなく、構成値として扱う
type VenueConfig struct {
	Rows               int
	SeatsPerRow        int
	LastRowSeats       int
	MaxSeatsPerBooking int
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "seat_booking"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Venue: VenueConfig{
			Rows:               getIntEnv("VENUE_ROWS", 12),
			SeatsPerRow:        getIntEnv("VENUE_SEATS_PER_ROW", 7),
			LastRowSeats:       getIntEnv("VENUE_LAST_ROW_SEATS", 3),
			MaxSeatsPerBooking: getIntEnv("MAX_SEATS_PER_BOOKING", 7),
		},
	}

	// DATABASE_URL / REDIS_URL が設定されている場合は優先する（PaaS形式）
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		applyDatabaseURL(&cfg.Database, dbURL)
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		applyRedisURL(&cfg.Redis, redisURL)
	}

	return cfg
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func applyDatabaseURL(cfg *DatabaseConfig, rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	cfg.Host = u.Hostname()
	if port := u.Port(); port != "" {
		cfg.Port = port
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			cfg.Password = pass
		}
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if mode := u.Query().Get("sslmode"); mode != "" {
		cfg.SSLMode = mode
	}
}

func applyRedisURL(cfg *RedisConfig, rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	cfg.Host = u.Hostname()
	if port := u.Port(); port != "" {
		cfg.Port = port
	}
	if u.User != nil {
		if pass, ok := u.User.Password(); ok {
			cfg.Password = pass
		}
	}
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		if db, err := strconv.Atoi(path); err == nil {
			cfg.DB = db
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// String は接続情報を含まない設定の概要を返す
func (c *Config) String() string {
	return fmt.Sprintf("server=:%s db=%s/%s venue=%dx%d(+%d) max_seats=%d",
		c.Server.Port, c.Database.Host, c.Database.DBName,
		c.Venue.Rows, c.Venue.SeatsPerRow, c.Venue.LastRowSeats,
		c.Venue.MaxSeatsPerBooking)
}
