package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/slackstats/workstats/internal/modules/directory/domain"
	"github.com/slackstats/workstats/internal/shared/errors"
)

// dateFormat is the accepted layout for FROM/TO bounds
const dateFormat = "2006-01-02"

type Config struct {
	SlackBotToken      string        `koanf:"slack_bot_token"`
	SlackUserToken     string        `koanf:"slack_user_token"`
	SlackSigningSecret string        `koanf:"slack_signing_secret"`
	SlackAPIURL        string        `koanf:"slack_api_url"`
	Workspace          string        `koanf:"workspace"`
	Channel            string        `koanf:"channel"`
	Channels           []string      `koanf:"channels"`
	From               string        `koanf:"from"`
	To                 string        `koanf:"to"`
	SelectUser         string        `koanf:"selectuser"`
	HTTPPort           string        `koanf:"http_port"`
	DBPath             string        `koanf:"db_path"`
	AppEnv             domain.AppEnv `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	// Convert SLACK_BOT_TOKEN -> slack_bot_token
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("slack_api_url") {
		k.Set("slack_api_url", "https://slack.com/api")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("db_path") {
		k.Set("db_path", "./data/workstats.db")
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse Channels from comma-separated string if it's a string
	// koanf might return it as a string from env vars or as a slice from config files
	if channels := k.Get("channels"); channels != nil {
		switch v := channels.(type) {
		case string:
			cfg.Channels = ParseChannels(v)
		case []interface{}:
			cfg.Channels = lo.FilterMap(v, func(item interface{}, _ int) (string, bool) {
				id, ok := item.(string)
				return id, ok && id != ""
			})
		}
	}

	// Parse AppEnv from string if needed
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := domain.ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = domain.AppEnvProduction
		}
	} else {
		cfg.AppEnv = domain.AppEnvProduction
	}

	// Validate required fields
	if cfg.SlackBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}
	if cfg.SlackUserToken == "" {
		return nil, errors.ErrMissingUserToken
	}
	if cfg.Channel == "" {
		return nil, errors.ErrMissingReportChannel
	}

	return &cfg, nil
}

// ParseChannels parses a comma-separated channel id string into a slice
func ParseChannels(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}

// Window parses the configured FROM/TO bounds. Both zero when no explicit
// range is configured; an error when only one bound is set or a bound does
// not parse.
func (c *Config) Window() (time.Time, time.Time, error) {
	if c.From == "" && c.To == "" {
		return time.Time{}, time.Time{}, nil
	}
	if c.From == "" || c.To == "" {
		return time.Time{}, time.Time{}, oops.Errorf("FROM and TO must be set together")
	}

	from, err := time.Parse(dateFormat, c.From)
	if err != nil {
		return time.Time{}, time.Time{}, oops.With("from", c.From).Errorf("invalid FROM date: expected YYYY-MM-DD")
	}
	to, err := time.Parse(dateFormat, c.To)
	if err != nil {
		return time.Time{}, time.Time{}, oops.With("to", c.To).Errorf("invalid TO date: expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, oops.With("from", c.From, "to", c.To).Errorf("TO must not precede FROM")
	}
	return from, to, nil
}
