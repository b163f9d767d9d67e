package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Env            string
	HTTPPort       string
	GRPCPort       string
	JWTSecret      string
	TokenTTL       time.Duration
	MySQLDSN       string
	RedisAddr      string
	KafkaBrokers   []string
	KafkaTopic     string
	HourlyRate     decimal.Decimal
	MetricsEnabled bool
	MigrateOnStart bool
	OTLPEndpoint   string
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Load reads configuration from the environment. When envFile exists it is
// loaded first without overriding variables that are already set.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := gotenv.Load(envFile); err != nil {
				return Config{}, err
			}
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", "3012")
	v.SetDefault("GRPC_PORT", "50051")
	v.SetDefault("TOKEN_TTL", "48h")
	v.SetDefault("MYSQL_DSN", "root:@tcp(localhost:3306)/garage?parseTime=true")
	v.SetDefault("KAFKA_TOPIC", "ledger-events")
	v.SetDefault("HOURLY_RATE", "500")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("MIGRATE_ON_START", false)

	rate, err := decimal.NewFromString(v.GetString("HOURLY_RATE"))
	if err != nil {
		return Config{}, err
	}

	c := Config{
		Env:            v.GetString("APP_ENV"),
		HTTPPort:       v.GetString("PORT"),
		GRPCPort:       v.GetString("GRPC_PORT"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		MySQLDSN:       v.GetString("MYSQL_DSN"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		KafkaBrokers:   splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:     v.GetString("KAFKA_TOPIC"),
		HourlyRate:     rate,
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		OTLPEndpoint:   v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
	if c.JWTSecret == "" {
		return c, ErrMissingSecret
	}
	return c, nil
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
