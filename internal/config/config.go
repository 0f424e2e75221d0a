// config реализует конфигурацию xplore-server: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Ops       OpsConfig       `yaml:"ops"`
	DB        DBConfig        `yaml:"db"`
	S3        S3Config        `yaml:"s3"`
	Auth      AuthConfig      `yaml:"auth"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Limits    LimitsConfig    `yaml:"limits"`
	Media     MediaConfig     `yaml:"media"`
	Notify    NotifyConfig    `yaml:"notify"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
}

// TimeoutConfig — сервисные таймауты (общий дедлайн обработки запроса).
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// HTTPConfig — сетевые настройки основного REST API.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"5000"`
	// BasePath — префикс REST-роутов, например "/api"; пустой — роуты на корне.
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:"/api"`
}

// OpsConfig — служебный HTTP (health/metrics).
type OpsConfig struct {
	Host string `yaml:"host" env:"OPS_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"OPS_PORT" env-default:"5090"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (o OpsConfig) Addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

// DBConfig — настройки подключения к MongoDB.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// S3Config — объектное хранилище медиафайлов статей (MinIO/S3).
type S3Config struct {
	Endpoint      string        `yaml:"endpoint"        env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	Bucket        string        `yaml:"bucket"          env:"S3_BUCKET" env-default:"xplore-media"`
	RootUser      string        `yaml:"root_user"       env:"S3_ROOT_USER" env-default:"minioadmin"`
	RootPassword  string        `yaml:"root_password"   env:"S3_ROOT_PASSWORD" env-default:"minioadmin"`
	PresignTTL    time.Duration `yaml:"presign_ttl"     env:"S3_PRESIGN_TTL" env-default:"15m"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL" env-default:""`
}

// AuthConfig — проверка токенов пользователей.
// Сервис токены не выпускает: секрет нужен только для верификации HS256-подписи.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	// CronSecret — общий секрет для GET /cleanup/cron (внешний планировщик).
	// Пустое значение отключает эндпойнт целиком.
	CronSecret string `yaml:"cron_secret" env:"CRON_SECRET" env-default:""`
}

// LifecycleConfig — политика устаревания статей и фоновая чистка.
type LifecycleConfig struct {
	// TTL — срок жизни незакладочной статьи с момента создания. По умолчанию 3 дня.
	TTL time.Duration `yaml:"ttl" env:"ARTICLE_TTL" env-default:"72h"`
	// SweepInterval — период фоновой чистки.
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL" env-default:"6h"`
	// SweepBootDelay — задержка первого прогона после старта (дать БД подняться).
	SweepBootDelay time.Duration `yaml:"sweep_boot_delay" env:"SWEEP_BOOT_DELAY" env-default:"10s"`
	// ExpiringWindow — окно «скоро истекают» для админ-отчёта.
	ExpiringWindow time.Duration `yaml:"expiring_window" env:"EXPIRING_WINDOW" env-default:"24h"`
}

// LimitsConfig — лимиты постраничной выдачи списка статей.
type LimitsConfig struct {
	// page_size=0 -> берём Default; верхняя граница — Max.
	Default int32 `yaml:"default" env:"DEFAULT_LIMIT" env-default:"10"`
	Max     int32 `yaml:"max"     env:"MAX_LIMIT"     env-default:"100"`
}

// MediaConfig — ограничения на загружаемые медиафайлы статей.
type MediaConfig struct {
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"MEDIA_MAX_SIZE_BYTES" env-default:"52428800"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"MEDIA_ALLOWED_CONTENT_TYPES" env-default:"image/jpeg,image/png,image/webp,video/mp4"`
}

// NotifyConfig — fan-out уведомлений о новых статьях.
type NotifyConfig struct {
	// WebhookURLs — адреса подписчиков; пустой список отключает рассылку.
	WebhookURLs []string      `yaml:"webhook_urls" env:"NOTIFY_WEBHOOK_URLS"`
	Timeout     time.Duration `yaml:"timeout"      env:"NOTIFY_TIMEOUT" env-default:"5s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Lifecycle.TTL < time.Hour {
		return fmt.Errorf("lifecycle.ttl must be at least 1h")
	}

	if c.Lifecycle.SweepInterval < time.Minute {
		return fmt.Errorf("lifecycle.sweep_interval must be at least 1m")
	}

	if c.Lifecycle.ExpiringWindow <= 0 {
		return fmt.Errorf("lifecycle.expiring_window must be > 0")
	}

	if c.Limits.Default <= 0 {
		return fmt.Errorf("limits.default must be > 0")
	}

	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}

	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}

	if c.Media.MaxSizeBytes <= 0 {
		return fmt.Errorf("media.max_size_bytes must be > 0")
	}

	return nil
}
