package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port string
}

type BackendConfig struct {
	// BaseURL адрес бэкенда сокращателя, без завершающего слэша
	BaseURL string
}

type RedisConfig struct {
	Host string
	Port string
}

type SessionConfig struct {
	// TTLHours время жизни сессии (и cookie, и записи в Redis)
	TTLHours int
	// CookieSecure включать ли флаг Secure на сессионной cookie
	CookieSecure bool
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	cfg.App.Port = viper.GetString("APP_PORT")
	cfg.Backend.BaseURL = viper.GetString("BACKEND_URL")
	cfg.Redis.Host = viper.GetString("REDIS_HOST")
	cfg.Redis.Port = viper.GetString("REDIS_PORT")
	cfg.Session.TTLHours = viper.GetInt("SESSION_TTL_HOURS")
	cfg.Session.CookieSecure = viper.GetBool("COOKIE_SECURE")

	if cfg.App.Port == "" {
		cfg.App.Port = "3000"
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8080"
	}
	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = 720 // 30 дней
	}

	// Rate limit только для эндпоинтов логина/регистрации
	cfg.RateLimit.RequestsPerSecond = viper.GetFloat64("RATE_LIMIT_RPS")
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 5
	}
	cfg.RateLimit.BurstSize = viper.GetInt("RATE_LIMIT_BURST")
	if cfg.RateLimit.BurstSize == 0 {
		cfg.RateLimit.BurstSize = 10
	}

	return &cfg, nil
}
