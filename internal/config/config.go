// Package config предоставляет загрузку конфигурации приложения из переменных окружения.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigErrorType классифицирует ошибки загрузки конфигурации.
type ConfigErrorType string

const (
	// ErrParsing: значение переменной окружения не приводится к типу поля.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// ErrValidation: конфигурация не прошла проверку тегов validate.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrDotenv: файл .env есть, но не читается или содержит синтаксическую ошибку.
	ErrDotenv ConfigErrorType = "DOTENV_FAILED"
)

// ConfigError возвращается из Load при некорректной конфигурации.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config содержит все параметры конфигурации приложения.
// Значения загружаются из переменных окружения (и файла .env, если он есть)
// с fallback на значения по умолчанию.
type Config struct {
	AppPort string `envconfig:"APP_PORT" default:"8080" validate:"required,numeric"`

	DatasetPath  string `envconfig:"DATASET_PATH" default:"df_ranking.csv" validate:"required"`
	DatasetWatch bool   `envconfig:"DATASET_WATCH" default:"false"`

	DefaultTopK  int `envconfig:"DEFAULT_TOP_K" default:"5" validate:"gte=1,lte=50"`
	SearchTopK   int `envconfig:"SEARCH_TOP_K" default:"10" validate:"gte=1,lte=100"`
	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"50" validate:"gte=1,lte=1000"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`

	PostgresEnabled  bool   `envconfig:"POSTGRES_ENABLED" default:"true"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432" validate:"numeric"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"travel_user"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"travel_pass"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"travel_db"`

	ElasticsearchURL   string `envconfig:"ELASTICSEARCH_URL" default:"http://localhost:9200" validate:"url"`
	ElasticsearchIndex string `envconfig:"ELASTICSEARCH_INDEX" default:"travel_observations" validate:"required"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo-0125"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" validate:"omitempty,url"`
}

// Load загружает и проверяет конфигурацию.
// Отсутствие файла .env не является ошибкой, синтаксическая ошибка в нём является.
// Уже заданные переменные окружения .env не переопределяет.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigError{
			Type:    ErrDotenv,
			Message: "failed to load .env file",
			Err:     err,
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}

// PostgresDSN собирает строку подключения к PostgreSQL.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresDB,
	)
}

// LLMEnabled сообщает, задан ли ключ API для языковой модели.
func (c *Config) LLMEnabled() bool {
	return c.OpenAIAPIKey != ""
}
