package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "lottery",
			User:     "mysql",
			Password: "mysql",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs: ServerConfigs{Port: "8080", AllowedOrigins: []string{"*"}},
			MaxLimit:      50,
			DefaultLimit:  10,
		},
		Auth: AuthConfigs{
			AccessToken:      TokenConfigs{Name: "access_token", Secret: "secret", Expiration: 5 * time.Minute},
			VerifiedTokenTTL: time.Minute,
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Cycle: CycleConfigs{
			Duration:              time.Hour,
			TickInterval:          time.Minute,
			EntryCost:             100,
			PayoutRatio:           0.7,
			EntryDeleteBatchSize:  500,
			MaxTransactionRetries: 3,
			CurrentCacheTTL:       2 * time.Second,
			NotificationTopic:     "cycle_completed",
		},
		SnowFlake: SnowFlakeConfigs{NodeID: 1},
	}
}

// Load builds the configurations from defaults, then the TOML file at path (if
// any), then environment variables.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Configs{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

// Validate rejects values the cycle engine cannot run with.
func (c Configs) Validate() error {
	cycle := c.Cycle
	if cycle.Duration <= 0 {
		return fmt.Errorf("cycle duration must be positive, got %s", cycle.Duration)
	}

	if cycle.TickInterval <= 0 {
		return fmt.Errorf("cycle tick interval must be positive, got %s", cycle.TickInterval)
	}

	if cycle.PayoutRatio < 0 || cycle.PayoutRatio > 1 {
		return fmt.Errorf("cycle payout ratio must be within [0, 1], got %v", cycle.PayoutRatio)
	}

	if cycle.EntryDeleteBatchSize <= 0 {
		return fmt.Errorf("entry delete batch size must be positive, got %d", cycle.EntryDeleteBatchSize)
	}

	if cycle.MaxTransactionRetries < 0 {
		return fmt.Errorf("max transaction retries must not be negative, got %d", cycle.MaxTransactionRetries)
	}

	return nil
}

func applyEnv(cfg *Configs) error {
	setString(&cfg.Env, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Database, "DB_DATABASE")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")

	setString(&cfg.ApiServer.Host, "API_HOST")
	setString(&cfg.ApiServer.Port, "API_PORT")
	if v := os.Getenv("API_ALLOWED_ORIGINS"); v != "" {
		cfg.ApiServer.AllowedOrigins = strings.Split(v, ",")
	}

	setString(&cfg.Auth.AccessToken.Secret, "TOKEN_SECRET")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Kafka.Addr, "KAFKA_ADDR")

	setString(&cfg.Storage.Region, "STORAGE_REGION")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")

	setString(&cfg.Cycle.NotificationTopic, "CYCLE_NOTIFICATION_TOPIC")
	setString(&cfg.Cycle.SnapshotBucket, "CYCLE_SNAPSHOT_BUCKET")

	if err := setDuration(&cfg.Cycle.Duration, "CYCLE_DURATION"); err != nil {
		return err
	}

	if err := setDuration(&cfg.Cycle.TickInterval, "CYCLE_TICK_INTERVAL"); err != nil {
		return err
	}

	if v := os.Getenv("CYCLE_ENTRY_COST"); v != "" {
		cost, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		cfg.Cycle.EntryCost = cost
	}

	if v := os.Getenv("CYCLE_PAYOUT_RATIO"); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		cfg.Cycle.PayoutRatio = ratio
	}

	if v := os.Getenv("SNOWFLAKE_NODE_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		cfg.SnowFlake.NodeID = id
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}

	*dst = d
	return nil
}
