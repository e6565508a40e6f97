package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const sqliteDSN = "glaucoma.db?_foreign_keys=on"

type Config struct {
	LogLevel      string `mapstructure:"log_level"`
	TelegramToken string `mapstructure:"telegram_token"`

	Service  ServiceConfig  `mapstructure:"service"`
	Database DatabaseConfig `mapstructure:"database"`
	Model    ModelConfig    `mapstructure:"model"`
	Vision   VisionConfig   `mapstructure:"vision"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Auth     AuthConfig     `mapstructure:"auth"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type ServiceConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Addr адрес для http.Server.
func (s ServiceConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres
	DSN    string `mapstructure:"dsn"`
}

type ModelConfig struct {
	Path          string `mapstructure:"path"`
	MetadataPath  string `mapstructure:"metadata_path"`
	SharedLibrary string `mapstructure:"shared_library"`
}

type VisionConfig struct {
	ImageSize   int  `mapstructure:"image_size"`
	QualityGate bool `mapstructure:"quality_gate"`
}

type UploadsConfig struct {
	Dir          string `mapstructure:"dir"`
	PublicPrefix string `mapstructure:"public_prefix"`
	MaxSizeMB    int64  `mapstructure:"max_size_mb"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Required  bool          `mapstructure:"required"`
}

type MinIOConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	Bucket     string `mapstructure:"bucket"`
	UseSSL     bool   `mapstructure:"use_ssl"`
	PublicBase string `mapstructure:"public_base"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	StateTTL time.Duration `mapstructure:"state_ttl"`
}

// Load собирает конфигурацию: значения по умолчанию, config.toml (если есть),
// .env и переменные окружения с префиксом GLAUCOMA_.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	configName := "config"
	if name := os.Getenv("CONFIG_NAME"); name != "" {
		configName = name
	}
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GLAUCOMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("telegram_token", "TELEGRAM_TOKEN", "GLAUCOMA_TELEGRAM_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = DefaultDSN(cfg.Database.Driver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.WithField("file", v.ConfigFileUsed()).Debug("config parsed")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("telegram_token", "")

	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.port", 8000)
	v.SetDefault("service.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")

	v.SetDefault("model.path", "ml/glaucoma_model.onnx")
	v.SetDefault("model.metadata_path", "ml/model_metadata.json")
	v.SetDefault("model.shared_library", "")

	v.SetDefault("vision.image_size", 320)
	v.SetDefault("vision.quality_gate", false)

	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.public_prefix", "/uploads")
	v.SetDefault("uploads.max_size_mb", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.required", true)

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", "127.0.0.1:9000")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "fundus")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.public_base", "http://127.0.0.1:9000")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.state_ttl", 24*time.Hour)
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Vision.ImageSize <= 0 {
		return fmt.Errorf("vision.image_size must be positive, got %d", c.Vision.ImageSize)
	}
	if c.Uploads.Dir == "" {
		return errors.New("uploads.dir is required")
	}
	if c.MinIO.Enabled && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "") {
		return errors.New("minio credentials are required when minio is enabled")
	}
	return nil
}

// DefaultDSN DSN для драйвера, если database.dsn не задан.
func DefaultDSN(driver string) string {
	if driver == "postgres" {
		return PostgresDSNFromEnv()
	}
	return sqliteDSN
}

// PostgresDSNFromEnv собирает DSN из переменных DB_*.
func PostgresDSNFromEnv() string {
	get := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		get("DB_HOST", "localhost"),
		get("DB_PORT", "5432"),
		get("DB_USER", "postgres"),
		get("DB_PASS", "postgres"),
		get("DB_NAME", "glaucoma"),
	)
}

// SetupLogging настраивает logrus по уровню из конфигурации.
func SetupLogging(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
}
