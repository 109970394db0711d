package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer APIServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Storage   S3Configs
	Cycle     CycleConfigs
	SnowFlake SnowFlakeConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

// MigrationURL is the data source name in the form golang-migrate expects.
func (d DatabaseConfigs) MigrationURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host           string
	Port           string
	AllowedOrigins []string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	MaxLimit     int
	DefaultLimit int
}

type AuthConfigs struct {
	AccessToken TokenConfigs

	// VerifiedTokenTTL bounds how long a verified access token is remembered
	// by the api process before it is verified again.
	VerifiedTokenTTL time.Duration
}

type TokenConfigs struct {
	Name       string
	Secret     string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

type S3Configs struct {
	Region      string
	Endpoint    string
	AccessKey   string
	SecretKey   string
	SSLDisabled bool
}

type SnowFlakeConfigs struct {
	NodeID int64
}

type CycleConfigs struct {
	// Duration is the length of the entry window of every cycle.
	Duration time.Duration

	// TickInterval is how often the orchestrator checks for expiration.
	TickInterval time.Duration

	EntryCost   uint64
	PayoutRatio float64

	// EntryDeleteBatchSize is the store's batch-write limit used when clearing
	// entries of an ended cycle.
	EntryDeleteBatchSize int

	MaxTransactionRetries int
	CurrentCacheTTL       time.Duration

	NotificationTopic string
	SnapshotBucket    string
}
