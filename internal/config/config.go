package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// Servicio remoto de analisis. Vacio = analisis simulado.
	AnalyzerBaseURL     string        `env:"ANALYZER_BASE_URL"`
	AnalyzerTimeout     time.Duration `env:"ANALYZER_TIMEOUT" envDefault:"20s"`
	AnalyzerMaxRetries  int           `env:"ANALYZER_MAX_RETRIES" envDefault:"2"`
	AnalyzerBackoff     time.Duration `env:"ANALYZER_BACKOFF" envDefault:"250ms"`
	AnalyzerRPS         float64       `env:"ANALYZER_RPS" envDefault:"5"`
	SimulatedDelay      time.Duration `env:"SIMULATED_ANALYSIS_DELAY" envDefault:"2s"`
	RecommenderMode     string        `env:"RECOMMENDER_MODE" envDefault:"local"`
	RecommendationLimit int           `env:"RECOMMENDATION_LIMIT" envDefault:"5"`

	MaxImageBytes int `env:"MAX_IMAGE_BYTES" envDefault:"8388608"`

	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	UploadRateWindow time.Duration `env:"UPLOAD_RATE_WINDOW" envDefault:"1m"`
	UploadRateMax    int           `env:"UPLOAD_RATE_MAX" envDefault:"10"`

	// Con Redis caido: true deja pasar los envios, false los rechaza.
	UploadRateFailOpen bool `env:"UPLOAD_RATE_FAIL_OPEN" envDefault:"true"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RemoteRecommender indica si las recomendaciones se piden al servicio remoto.
func (c *Config) RemoteRecommender() bool {
	return c.RecommenderMode == "remote" && c.AnalyzerBaseURL != ""
}
