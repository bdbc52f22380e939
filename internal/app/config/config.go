package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int

	LogLevel string
	LogJSON  bool

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	// показы и клики рекламных кампаний
	TrackingRateLimitRPS   float64
	TrackingRateLimitBurst int

	// cron-выражение для фоновых задач обслуживания
	MaintenanceSpec string
	// через сколько неизменённый черновик заявки считается брошенным
	DraftTTL time.Duration

	JWT   JWTConfig   `mapstructure:"-"`
	Redis RedisConfig `mapstructure:"-"`
	MinIO MinIOConfig `mapstructure:"-"`
}

type JWTConfig struct {
	Token         string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
	Issuer        string
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envMinioEndpoint  = "MINIO_ENDPOINT"
	envMinioAccessKey = "MINIO_ACCESS_KEY"
	envMinioSecretKey = "MINIO_SECRET_KEY"
	envMinioBucket    = "MINIO_BUCKET"
	envMinioUseSSL    = "MINIO_USE_SSL"

	envJWTSecret = "JWT_SECRET"
	envJWTTTL    = "JWT_TTL"

	defaultBucket = "kids-events"
	jwtIssuer     = "kids-events"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetDefault("ServiceHost", "0.0.0.0")
	v.SetDefault("ServicePort", 8080)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("RateLimitRPS", 5)
	v.SetDefault("RateLimitBurst", 10)
	v.SetDefault("TrackingRateLimitRPS", 2)
	v.SetDefault("TrackingRateLimitBurst", 20)
	v.SetDefault("MaintenanceSpec", "@every 10m")
	v.SetDefault("DraftTTL", "720h")

	err = v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	cfg.JWT, err = jwtFromEnv()
	if err != nil {
		return nil, err
	}

	// инициализация Redis конфигурации из env
	cfg.Redis.Host = os.Getenv(envRedisHost)
	if cfg.Redis.Host != "" {
		cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
		if err != nil {
			return nil, fmt.Errorf("redis port must be int value: %w", err)
		}
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	cfg.MinIO = MinIOConfig{
		Endpoint:  os.Getenv(envMinioEndpoint),
		AccessKey: os.Getenv(envMinioAccessKey),
		SecretKey: os.Getenv(envMinioSecretKey),
		Bucket:    os.Getenv(envMinioBucket),
		UseSSL:    strings.EqualFold(os.Getenv(envMinioUseSSL), "true"),
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = defaultBucket
	}

	log.Info("config parsed")

	return cfg, nil
}

func jwtFromEnv() (JWTConfig, error) {
	cfg := JWTConfig{
		Token:         os.Getenv(envJWTSecret),
		ExpiresIn:     time.Hour,
		SigningMethod: jwt.SigningMethodHS256,
		Issuer:        jwtIssuer,
	}
	if cfg.Token == "" {
		log.Warn("JWT_SECRET is not set, using development secret")
		cfg.Token = "dev-secret"
	}
	if ttl := os.Getenv(envJWTTTL); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return cfg, fmt.Errorf("JWT_TTL must be a duration: %w", err)
		}
		cfg.ExpiresIn = d
	}
	return cfg, nil
}

// ApplyLogging настраивает logrus по конфигу
func (c *Config) ApplyLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
