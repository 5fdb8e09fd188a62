package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"hicentral-parser-service/internal/constants"

	"github.com/joho/godotenv"
)

// CrawlerConfig - что и как обходить
type CrawlerConfig struct {
	BaseURL        string
	StartPath      string
	Debug          bool // одна страница результатов и одно объявление
	RequestTimeout time.Duration
}

// StartURL - адрес первой страницы результатов
func (c CrawlerConfig) StartURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.StartPath
}

// DelayConfig - стратегия задержки между запросами
type DelayConfig struct {
	Strategy      string
	Min           time.Duration
	Max           time.Duration
	RatePerSecond float64
	Burst         int
}

// OutputConfig - куда пишется дамп
type OutputConfig struct {
	DumpFilename string
}

// DBconfig хранит конфигурацию для БД. Пустой URL отключает запись в Postgres.
type DBconfig struct {
	URL string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ. Пустой URL отключает публикацию.
type RabbitMQConfig struct {
	URL string
}

type StdoutLogConfig struct {
	Level  string
	IsJSON bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Crawler      CrawlerConfig
	Delay        DelayConfig
	Output       OutputConfig
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Если передан путь к .env, файл обязан существовать; файл .env по умолчанию необязателен.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	if len(envPath) > 0 {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath[0], err)
		}
	} else if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file: %w", err)
		}
		log.Printf("Info: .env file not found, using process environment only.\n")
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "hicentral-parser-service")

	cfg.Crawler.BaseURL = getEnvAsString("HICENTRAL_BASE_URL", constants.DefaultBaseURL)
	cfg.Crawler.StartPath = getEnvAsString("HICENTRAL_START_PATH", constants.DefaultStartPath)
	cfg.Crawler.Debug = getEnvAsBool("CRAWL_DEBUG", true)
	cfg.Crawler.RequestTimeout = getEnvAsSeconds("REQUEST_TIMEOUT_SECONDS", 0)

	cfg.Delay.Strategy = strings.ToLower(getEnvAsString("DELAY_STRATEGY", constants.DelayStrategyRandom))
	cfg.Delay.Min = getEnvAsSeconds("DELAY_MIN_SECONDS", 1.0)
	cfg.Delay.Max = getEnvAsSeconds("DELAY_MAX_SECONDS", 3.0)
	cfg.Delay.RatePerSecond = getEnvAsFloat("DELAY_RATE_PER_SECOND", 0.5)
	cfg.Delay.Burst = getEnvAsInt("DELAY_BURST", 1)

	switch cfg.Delay.Strategy {
	case constants.DelayStrategyRandom:
		if cfg.Delay.Min < 0 || cfg.Delay.Max < cfg.Delay.Min {
			return nil, fmt.Errorf("invalid delay bounds: min=%s max=%s", cfg.Delay.Min, cfg.Delay.Max)
		}
	case constants.DelayStrategyTokenBucket:
		if cfg.Delay.RatePerSecond <= 0 || cfg.Delay.Burst < 1 {
			return nil, fmt.Errorf("invalid token bucket: rate=%v burst=%d", cfg.Delay.RatePerSecond, cfg.Delay.Burst)
		}
	default:
		return nil, fmt.Errorf("unknown DELAY_STRATEGY %q", cfg.Delay.Strategy)
	}

	cfg.Output.DumpFilename = getEnvAsString("DUMP_FILENAME", constants.DefaultDumpFilename)
	if cfg.Output.DumpFilename == "" {
		return nil, fmt.Errorf("DUMP_FILENAME cannot be empty")
	}

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsFloat читает переменную окружения как float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueFloat, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %v\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueFloat
}

// getEnvAsSeconds читает дробное число секунд ("1.5") и превращает его в time.Duration
func getEnvAsSeconds(key string, defaultSeconds float64) time.Duration {
	seconds := getEnvAsFloat(key, defaultSeconds)
	return time.Duration(seconds * float64(time.Second))
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
