package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Mongo MongoConfig `mapstructure:"mongo"`
	Redis RedisConfig `mapstructure:"redis"`
	NATS  NATSConfig  `mapstructure:"nats"`
	JWT   JWTConfig   `mapstructure:"jwt"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	PingTimeout    time.Duration `mapstructure:"ping_timeout"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// LoadConfig reads configuration from path (a yaml file or a directory
// holding config.yaml), layered under NESTAR_* environment overrides.
// A missing file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env file")
	}

	v := viper.New()

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "nestar")
	v.SetDefault("mongo.connect_timeout", "10s")
	v.SetDefault("mongo.ping_timeout", "5s")
	v.SetDefault("mongo.min_pool_size", 0)
	v.SetDefault("mongo.max_pool_size", 100)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.connect_timeout", "5s")

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.ttl", "720h")

	if fi, err := os.Stat(path); err == nil {
		if fi.IsDir() {
			v.AddConfigPath(path)
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		} else {
			v.SetConfigFile(path)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("NESTAR")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found; using defaults and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
