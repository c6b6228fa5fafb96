// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string        `yaml:"env"`
	StorageConnectionString string        `yaml:"storage_connection_string"`
	RabbitMQConnection      string        `yaml:"rabbitmq_connection"`
	RabbitMQMaxRetries      int           `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay      time.Duration `yaml:"rabbitmq_retry_delay" env-default:"3s"`
	MigrationsPath          string        `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	OTPPolicy               `yaml:"otp"`
	Gateway                 `yaml:"gateway"`
	SMSProvider             `yaml:"sms_provider"`
	SMTPConnection          `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// OTPPolicy параметры одноразовых кодов: срок жизни, число попыток ввода
// и лимит отправок на номер в скользящее окно.
type OTPPolicy struct {
	CodeTTL         time.Duration `yaml:"code_ttl" env-default:"10m"`
	MaxAttempts     int           `yaml:"max_attempts" env-default:"3"`
	MaxSendsPerHour int           `yaml:"max_sends_per_hour" env-default:"5"`
}

// Gateway настройки платёжного шлюза: учетные данные API и секрет
// для проверки подписи колбэков.
type Gateway struct {
	KeyID         string `yaml:"key_id"`
	KeySecret     string `yaml:"key_secret"`
	APIURL        string `yaml:"api_url"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// SMSProvider настройки провайдера SMS.
type SMSProvider struct {
	APIKey string `yaml:"api_key"`
	APIURL string `yaml:"api_url"`
	Sender string `yaml:"sender"`
	DryRun bool   `yaml:"dry_run"`
}

// SMTPConnection настройки SMTP для отправки писем.
type SMTPConnection struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
