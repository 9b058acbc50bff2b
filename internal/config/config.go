package config

import (
	"errors"
	"fmt"
	"github.com/tabvc/tabvc/internal/translator"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

const (
	envAPIKey  = "TABVC_TRANSLATOR_API_KEY"
	envBaseURL = "TABVC_TRANSLATOR_BASE_URL"
	envModel   = "TABVC_TRANSLATOR_MODEL"
)

type Config struct {
	ServiceName string        `yaml:"service_name"`
	StopTimeout time.Duration `yaml:"stop_timeout"`
	Debug       bool          `yaml:"debug"`

	HTTP       Listener   `yaml:"http"`
	GRPC       Listener   `yaml:"grpc"`
	CDC        Listener   `yaml:"cdc"`
	Translator Translator `yaml:"translator"`
	Preview    Preview    `yaml:"preview"`
}

// Listener is a TCP endpoint. Enabled is ignored for HTTP, which always runs.
type Listener struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type Translator struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type Preview struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ServiceName: "tabvc",
		StopTimeout: 10 * time.Second,
		HTTP:        Listener{Enabled: true, Address: "0.0.0.0", Port: 8000},
		GRPC:        Listener{Address: "127.0.0.1", Port: 9090},
		CDC:         Listener{Address: "127.0.0.1", Port: 32496},
		Translator: Translator{
			BaseURL: translator.DefaultBaseURL,
			Model:   translator.DefaultModel,
			Timeout: translator.DefaultTimeout,
		},
		Preview: Preview{DefaultLimit: 100, MaxLimit: 1000},
	}
}

// Load reads a YAML file over the defaults and applies environment overrides. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v, ok := os.LookupEnv(envAPIKey); ok {
		cfg.Translator.APIKey = v
	}
	if v, ok := os.LookupEnv(envBaseURL); ok && v != "" {
		cfg.Translator.BaseURL = v
	}
	if v, ok := os.LookupEnv(envModel); ok && v != "" {
		cfg.Translator.Model = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errGrp []error
	if c.ServiceName == "" {
		errGrp = append(errGrp, errors.New("service_name is required"))
	}
	if c.StopTimeout <= 0 {
		errGrp = append(errGrp, errors.New("stop_timeout must be greater than 0"))
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errGrp = append(errGrp, errors.New("http.port must be between 1 and 65535"))
	}
	if c.GRPC.Enabled && (c.GRPC.Port < 0 || c.GRPC.Port > 65535) {
		errGrp = append(errGrp, errors.New("grpc.port must be between 0 and 65535"))
	}
	if c.CDC.Enabled && (c.CDC.Port < 0 || c.CDC.Port > 65535) {
		errGrp = append(errGrp, errors.New("cdc.port must be between 0 and 65535"))
	}
	if c.Preview.DefaultLimit < 1 || c.Preview.DefaultLimit > c.Preview.MaxLimit {
		errGrp = append(errGrp, errors.New("preview.default_limit must be between 1 and max_limit"))
	}
	return errors.Join(errGrp...)
}
