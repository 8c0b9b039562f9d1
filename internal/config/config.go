// Package config loads the server configuration. Sources are layered in
// this order, later ones winning: built-in defaults, a YAML file, a .env
// file, the process environment. Command-line flags are applied by the
// caller on top.
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/observability"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/hianimeapi"
)

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is built once at startup and passed down explicitly.
type Config struct {
	HiAnimeBaseURL string  `yaml:"hianime_api_base"`
	MALBaseURL     string  `yaml:"mal_api_base"` // empty means HiAnimeBaseURL
	UserAgent      string  `yaml:"user_agent"`
	RequestTimeout float64 `yaml:"request_timeout"` // seconds
	Transport      string  `yaml:"transport"`
	Port           string  `yaml:"port"`
	Env            string  `yaml:"app_env"`

	Loki observability.LokiConfig `yaml:"loki"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HiAnimeBaseURL: hianimeapi.DefaultServerURL,
		UserAgent:      "HiAnime-MCP-Server/1.0",
		RequestTimeout: 30,
		Transport:      TransportStdio,
		Port:           "8089",
		Env:            "dev",
	}
}

// Timeout returns RequestTimeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout * float64(time.Second))
}

// MALBase returns the MyAnimeList proxy base URL.
func (c Config) MALBase() string {
	if c.MALBaseURL != "" {
		return c.MALBaseURL
	}
	return c.HiAnimeBaseURL
}

// Load builds the configuration. yamlPath and envPath may be empty; a
// missing .env file is not an error, a missing YAML file is.
func Load(yamlPath, envPath string) (Config, error) {
	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return cfg, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", yamlPath)
		}
	}

	env, err := readEnv(envPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.apply(env); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// readEnv merges a .env file under the process environment. Variables that
// are already set are never overridden by the file; an exported but blank
// variable counts as unset.
func readEnv(path string) (map[string]string, error) {
	env := map[string]string{}
	if path != "" {
		file, err := godotenv.Read(path)
		switch {
		case err == nil:
			env = file
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, errors.Wrapf(err, "read %s", path)
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.TrimSpace(v) != "" {
			env[k] = v
		}
	}
	return env, nil
}

func (c *Config) apply(env map[string]string) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"HIANIME_API_BASE", &c.HiAnimeBaseURL},
		{"MAL_API_BASE", &c.MALBaseURL},
		{"USER_AGENT", &c.UserAgent},
		{"MCP_TRANSPORT", &c.Transport},
		{"PORT", &c.Port},
		{"APP_ENV", &c.Env},
		{"GRAFANA_LOKI_URL", &c.Loki.URL},
		{"GRAFANA_LOKI_USER", &c.Loki.User},
		{"GRAFANA_LOKI_API_KEY", &c.Loki.APIKey},
		{"INSTANCE_ID", &c.Loki.Instance},
		{"INSTANCE_REGION", &c.Loki.Region},
	}
	for _, s := range strs {
		if v := strings.TrimSpace(env[s.key]); v != "" {
			*s.dst = v
		}
	}

	if v := strings.TrimSpace(env["REQUEST_TIMEOUT"]); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "REQUEST_TIMEOUT %q", v)
		}
		c.RequestTimeout = secs
	}
	if c.Loki.App == "" {
		c.Loki.App = "anime-mcp-" + c.Env
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	for _, b := range []struct{ name, value string }{
		{"hianime_api_base", c.HiAnimeBaseURL},
		{"mal_api_base", c.MALBase()},
	} {
		u, err := url.Parse(b.value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Errorf("%s: %q is not an http(s) URL", b.name, b.value)
		}
	}
	if c.RequestTimeout <= 0 {
		return errors.Errorf("request_timeout must be positive, got %v", c.RequestTimeout)
	}
	switch c.Transport {
	case TransportStdio:
	case TransportHTTP:
		if _, err := strconv.Atoi(c.Port); err != nil {
			return errors.Errorf("port %q is not a number", c.Port)
		}
	default:
		return errors.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportStdio, TransportHTTP)
	}
	return nil
}
