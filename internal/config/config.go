package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Ladok    LadokConfig    `yaml:"ladok"`
	Canvas   CanvasConfig   `yaml:"canvas"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Workers  WorkersConfig  `yaml:"workers"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LadokConfig selects the Ladok installation and carries the federation
// credentials. The endpoint overrides are normally left empty; they exist so
// integration tests can point the whole handshake at a local server.
type LadokConfig struct {
	Environment string        `yaml:"environment"` // "production" or "test"
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	Timeout     time.Duration `yaml:"timeout"`

	BaseURL      string `yaml:"base_url"`
	IDPEntityID  string `yaml:"idp_entity_id"`
	SSOInitURL   string `yaml:"sso_init_url"`
	LoginBaseURL string `yaml:"login_base_url"`
}

type CanvasConfig struct {
	Host        string        `yaml:"host"`
	AccessToken string        `yaml:"access_token"`
	UseSSL      bool          `yaml:"use_ssl"`
	Timeout     time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type RedisConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Password       string `yaml:"password"`
	DB             int    `yaml:"db"`
	PoolSize       int    `yaml:"pool_size"`
	IngestionQueue string `yaml:"ingestion_queue"`
	ReportQueue    string `yaml:"report_queue"`
	DLQSuffix      string `yaml:"dlq_suffix"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type WorkersConfig struct {
	Ingestion IngestionWorkerConfig `yaml:"ingestion"`
	Report    ReportWorkerConfig    `yaml:"report"`
}

type IngestionWorkerConfig struct {
	Count     int `yaml:"count"`
	BatchSize int `yaml:"batch_size"`
}

type ReportWorkerConfig struct {
	Count     int `yaml:"count"`
	BatchSize int `yaml:"batch_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Ladok.Timeout == 0 {
		config.Ladok.Timeout = 60 * time.Second
	}
	if config.Canvas.Timeout == 0 {
		config.Canvas.Timeout = 30 * time.Second
	}

	return &config, nil
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset, c.Database.ParseTime, c.Database.Loc)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
