package utils

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Reservation ReservationConfig
	Kafka       KafkaConfig
	Auth        AuthConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type ReservationConfig struct {
	PendingTTL          time.Duration
	SweepInterval       time.Duration
	CheckInGrace        time.Duration
	LedgerFlushInterval time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AuthConfig holds static tokens accepted when sessions live in memory.
type AuthConfig struct {
	DevAdminToken    string
	DevCustomerToken string
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads path if it exists; environment variables always win.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "hotel-reservation")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("RESERVATION_PENDING_TTL", "15m")
	v.SetDefault("RESERVATION_SWEEP_INTERVAL", "1m")
	v.SetDefault("RESERVATION_CHECKIN_GRACE", "0s")
	v.SetDefault("LEDGER_FLUSH_INTERVAL", "5s")
	v.SetDefault("KAFKA_TOPIC", "booking.events")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Reservation: ReservationConfig{
			PendingTTL:          v.GetDuration("RESERVATION_PENDING_TTL"),
			SweepInterval:       v.GetDuration("RESERVATION_SWEEP_INTERVAL"),
			CheckInGrace:        v.GetDuration("RESERVATION_CHECKIN_GRACE"),
			LedgerFlushInterval: v.GetDuration("LEDGER_FLUSH_INTERVAL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Auth: AuthConfig{
			DevAdminToken:    v.GetString("DEV_ADMIN_TOKEN"),
			DevCustomerToken: v.GetString("DEV_CUSTOMER_TOKEN"),
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
