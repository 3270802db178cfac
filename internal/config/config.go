package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio backend.
type Config struct {
	HTTPPort           string `env:"HTTP_PORT" envDefault:"8000"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	SecretKey          string `env:"SECRET_KEY" envDefault:"supersecret"`
	WeatherAPIKey      string `env:"WEATHER_API_KEY"`
	WeatherBaseURL     string `env:"WEATHER_BASE_URL" envDefault:"http://api.weatherapi.com/v1"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8000/auth/google/callback"`
	FrontendOrigin     string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:8501"`
	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
}

// InsecureSecretFallback es la clave de firma por defecto; solo sirve para desarrollo.
const InsecureSecretFallback = "supersecret"

// LoadConfig carga la configuración del backend desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WebConfig centraliza la configuración del frontend web.
type WebConfig struct {
	WebPort    string `env:"WEB_PORT" envDefault:"8501"`
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
}

// LoadWebConfig carga la configuración del frontend desde variables de entorno.
func LoadWebConfig() (*WebConfig, error) {
	var cfg WebConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
