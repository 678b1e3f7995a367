package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

// File is the config path looked up under the XDG config directories.
const File = "othello/config.yml"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	LogLevel  string `yaml:"log-level" env:"OTHELLO_LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log-format" env:"OTHELLO_LOG_FORMAT" env-default:"json"`
	HTTP      HTTP   `yaml:"http"`
	Events    Events `yaml:"events"`
	Rules     Rules  `yaml:"rules"`
}

// HTTP holds server settings. A zero WriteTimeout keeps event and WebSocket
// streams open.
type HTTP struct {
	Addr            string        `yaml:"addr" env:"OTHELLO_HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read-timeout" env:"OTHELLO_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write-timeout" env:"OTHELLO_HTTP_WRITE_TIMEOUT" env-default:"0s"`
	IdleTimeout     time.Duration `yaml:"idle-timeout" env:"OTHELLO_HTTP_IDLE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"OTHELLO_HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Events struct {
	Heartbeat time.Duration `yaml:"heartbeat" env:"OTHELLO_EVENTS_HEARTBEAT" env-default:"15s"`
}

type Rules struct {
	AutoPass bool `yaml:"auto-pass" env:"OTHELLO_RULES_AUTO_PASS" env-default:"false"`
}

// Load reads the configuration. An explicit path wins; otherwise File is
// searched in the XDG config directories; without a file only the
// environment and defaults apply. Environment variables always override
// values from the file.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if found, err := xdg.SearchConfigFile(File); err == nil {
			path = found
		}
	}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoad - same as Load but panics on error.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

func (that *Config) Validate() error {
	switch that.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log-level %q", ErrInvalid, that.LogLevel)
	}
	switch that.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log-format %q", ErrInvalid, that.LogFormat)
	}
	if that.HTTP.Addr == "" {
		return fmt.Errorf("%w: http.addr is empty", ErrInvalid)
	}
	for name, d := range map[string]time.Duration{
		"http.read-timeout":     that.HTTP.ReadTimeout,
		"http.write-timeout":    that.HTTP.WriteTimeout,
		"http.idle-timeout":     that.HTTP.IdleTimeout,
		"http.shutdown-timeout": that.HTTP.ShutdownTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalid, name)
		}
	}
	if that.Events.Heartbeat <= 0 {
		return fmt.Errorf("%w: events.heartbeat must be positive", ErrInvalid)
	}
	return nil
}
