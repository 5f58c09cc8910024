package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database       DatabaseConfigs      `toml:"database"`
	ApiServer      ServerConfigs        `toml:"api_server"`
	Auth           AuthConfigs          `toml:"auth"`
	Redis          RedisConfigs         `toml:"redis"`
	Kafka          KafkaConfigs         `toml:"kafka"`
	Quest          QuestConfigs         `toml:"quest"`
	SecurityEvents SecurityEventConfigs `toml:"security_events"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`

	AllowedOrigins []string `toml:"allowed_origins"`
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr               string `toml:"addr"`
	SecurityEventTopic string `toml:"security_event_topic"`
}

type QuestConfigs struct {
	// ClaimedRewardTolerance is the maximum allowed difference between the
	// client-claimed and the server-computed reward before the attempt is
	// flagged. Rounding on the client makes an off-by-one legitimate.
	ClaimedRewardTolerance int64 `toml:"claimed_reward_tolerance"`
}

type SecurityEventConfigs struct {
	Retention time.Duration `toml:"retention"`
}

// Load reads configurations from the toml file pointed at by CONFIG_FILE and
// overrides connection settings with environment variables when they are set.
func Load() (Configs, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.ApiServer.Port = v
	}

	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}

	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}

	if v := os.Getenv("KAFKA_ADDR"); v != "" {
		cfg.Kafka.Addr = v
	}

	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}

	return cfg, nil
}

func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "zoquest",
			User:     "root",
		},
		ApiServer: ServerConfigs{
			Host:           "localhost",
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			TokenSecret: "secret",
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{
			Addr:               "localhost:9092",
			SecurityEventTopic: "security-events",
		},
		Quest: QuestConfigs{
			ClaimedRewardTolerance: 1,
		},
		SecurityEvents: SecurityEventConfigs{
			Retention: 90 * 24 * time.Hour,
		},
	}
}
