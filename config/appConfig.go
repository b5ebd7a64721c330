package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wpbreez_sync/config/values"
)

type BreezConfig struct {
	ApiURL   string            `yaml:"api_url"`
	Login    string            `yaml:"login"`
	Password string            `yaml:"password"`
	Rate     values.RateValues `yaml:"rate"`
}

type WooCommerceConfig struct {
	StoreURL       string            `yaml:"store_url"`
	ConsumerKey    string            `yaml:"consumer_key"`
	ConsumerSecret string            `yaml:"consumer_secret"`
	WPUser         string            `yaml:"wp_user"`
	WPAppPassword  string            `yaml:"wp_app_password"`
	MediaTransport string            `yaml:"media_transport"`
	Rate           values.RateValues `yaml:"rate"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwt_secret"`
	Env       string `yaml:"env"`
}

type AppConfig struct {
	Breez       BreezConfig       `yaml:"breez"`
	WooCommerce WooCommerceConfig `yaml:"woocommerce"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Server      ServerConfig      `yaml:"server"`
	Sync        values.SyncValues `yaml:"sync"`
	LogLevel    string            `yaml:"log_level"`
}

const (
	MediaTransportREST   = "rest"
	MediaTransportXMLRPC = "xmlrpc"
)

// LoadConfig читает YAML (если файл задан), затем .env и переменные окружения.
func LoadConfig(filename string) (*AppConfig, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", filename, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	c.Breez.ApiURL = getEnv("BREEZ_API_URL", c.Breez.ApiURL)
	c.Breez.Login = getEnv("BREEZ_LOGIN", c.Breez.Login)
	c.Breez.Password = getEnv("BREEZ_PASSWORD", c.Breez.Password)

	c.WooCommerce.StoreURL = getEnv("WC_STORE_URL", c.WooCommerce.StoreURL)
	c.WooCommerce.ConsumerKey = getEnv("WC_CONSUMER_KEY", c.WooCommerce.ConsumerKey)
	c.WooCommerce.ConsumerSecret = getEnv("WC_CONSUMER_SECRET", c.WooCommerce.ConsumerSecret)
	c.WooCommerce.WPUser = getEnv("WP_USER", c.WooCommerce.WPUser)
	c.WooCommerce.WPAppPassword = getEnv("WP_APP_PASSWORD", c.WooCommerce.WPAppPassword)

	applyPostgresEnv(&c.Postgres)

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		c.Kafka.Brokers = strings.Split(brokers, ",")
	}
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)

	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Server.JWTSecret = getEnv("JWT_SECRET", c.Server.JWTSecret)
	c.Server.Env = getEnv("ENV", c.Server.Env)

	c.Sync.PageSize = getEnvAsInt("SYNC_PAGE_SIZE", c.Sync.PageSize)
	c.Sync.UploadDir = getEnv("SYNC_UPLOAD_DIR", c.Sync.UploadDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

func (c *AppConfig) applyDefaults() {
	c.Sync.ApplyDefaults()
	c.Breez.Rate.ApplyDefaults()
	c.WooCommerce.Rate.ApplyDefaults()

	if c.Breez.ApiURL == "" {
		c.Breez.ApiURL = "https://api.breez.ru/v1"
	}
	c.Breez.ApiURL = strings.TrimRight(c.Breez.ApiURL, "/")
	c.WooCommerce.StoreURL = strings.TrimRight(c.WooCommerce.StoreURL, "/")
	if c.WooCommerce.MediaTransport == "" {
		c.WooCommerce.MediaTransport = MediaTransportREST
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "breez-sync-events"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8081"
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *AppConfig) Validate() error {
	var errs []error
	switch c.WooCommerce.MediaTransport {
	case MediaTransportREST, MediaTransportXMLRPC:
	default:
		errs = append(errs, fmt.Errorf("unknown woocommerce.media_transport %q", c.WooCommerce.MediaTransport))
	}
	if c.Sync.PageSize <= 0 {
		errs = append(errs, errors.New("sync.page-size must be positive"))
	}
	return errors.Join(errs...)
}
