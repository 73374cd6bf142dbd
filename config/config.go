package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Upstreams  UpstreamsConfig  `mapstructure:"upstreams"`
	Generation GenerationConfig `mapstructure:"generation"`
}

// JWTConfig carries token signing/validation settings. The secret itself
// comes from the JWT_SECRET_KEY environment variable, never from the file.
type JWTConfig struct {
	SecretKey      string        `mapstructure:"-"`
	Issuer         string        `mapstructure:"issuer"`
	Audience       string        `mapstructure:"audience"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
	RefreshTTL     time.Duration `mapstructure:"refreshTTL"`
}

// UpstreamsConfig holds the external data sources the pipeline consumes.
// Base URLs are overridable so tests can point at httptest servers.
type UpstreamsConfig struct {
	Geoapify struct {
		BaseURL string        `mapstructure:"baseURL"`
		APIKey  string        `mapstructure:"-"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"geoapify"`
	OpenWeather struct {
		BaseURL string        `mapstructure:"baseURL"`
		APIKey  string        `mapstructure:"-"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"openweather"`
}

// GenerationConfig is the retry/temperature schedule for itinerary
// generation. Temperatures has one entry per ordinary attempt; the final
// pressured attempt uses FinalTemperature.
type GenerationConfig struct {
	Model            string        `mapstructure:"model"`
	MaxAttempts      int           `mapstructure:"maxAttempts"`
	Temperatures     []float64     `mapstructure:"temperatures"`
	FinalTemperature float64       `mapstructure:"finalTemperature"`
	MaxOutputTokens  int32         `mapstructure:"maxOutputTokens"`
	UsageThreshold   float64       `mapstructure:"usageThreshold"`
	AttemptTimeout   time.Duration `mapstructure:"attemptTimeout"`
	PipelineTimeout  time.Duration `mapstructure:"pipelineTimeout"`
}

// AttemptTemperature returns the temperature for ordinary attempt n (1-based).
// Attempts beyond the configured schedule reuse the last entry.
func (g GenerationConfig) AttemptTemperature(n int) float64 {
	if len(g.Temperatures) == 0 {
		return g.FinalTemperature
	}
	if n > len(g.Temperatures) {
		n = len(g.Temperatures)
	}
	if n < 1 {
		n = 1
	}
	return g.Temperatures[n-1]
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	// Secrets come from the environment only.
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	config.Upstreams.Geoapify.APIKey = os.Getenv("GEOAPIFY_API_KEY")
	config.Upstreams.OpenWeather.APIKey = os.Getenv("OPENWEATHER_API_KEY")

	if pw := os.Getenv("POSTGRES_PASSWORD"); pw != "" {
		config.Repositories.Postgres.Password = pw
	}

	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
