package config

import (
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds everything the service needs at runtime. Values come from
// struct defaults, then the optional YAML config file, then BORROWDESK_*
// environment variables, each layer overriding the previous one.
type Config struct {
	Environment     string `koanf:"environment" default:"development"`
	ServerHost      string `koanf:"server_host" default:"127.0.0.1"`
	ServerPort      int    `koanf:"server_port" default:"4280"`
	BackendBaseURL  string `koanf:"backend_base_url" default:"http://localhost:5117"`
	DefaultPageSize int    `koanf:"default_page_size" default:"7"`
	MaxUploadBytes  int64  `koanf:"max_upload_bytes" default:"5242880"`
	Hostname        string `koanf:"-"`
}

const (
	envPrefix     = "BORROWDESK_"
	configFileENV = "CONFIG_FILE"
)

func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	configFilePath := os.Getenv(configFileENV)
	if configFilePath == "" {
		configFilePath = "./config.yaml"
	}
	err := k.Load(file.Provider(configFilePath), yaml.Parser())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "failed to load config file: %s", configFilePath)
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	u, err := url.Parse(cfg.BackendBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("backend_base_url is not a valid URL: %q", cfg.BackendBaseURL)
	}
	if cfg.DefaultPageSize < 1 {
		return errors.Errorf("default_page_size must be positive, got %d", cfg.DefaultPageSize)
	}
	if cfg.MaxUploadBytes < 1 {
		return errors.Errorf("max_upload_bytes must be positive, got %d", cfg.MaxUploadBytes)
	}
	return nil
}
