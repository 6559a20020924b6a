package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // US/Central and friends on hosts without zoneinfo

	"github.com/harrisonrobin/todoist-organizer/pkg/auth"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configFile = "config.yaml"
	envFile    = ".env"
)

// Config holds every tunable of the tool. It is built once by Load and then
// only read.
type Config struct {
	TodoistAPIToken string `mapstructure:"todoist_api_token"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`

	TodoistBaseURL string `mapstructure:"todoist_base_url"`
	LLMBaseURL     string `mapstructure:"llm_base_url"`
	Model          string `mapstructure:"model"`
	MaxTokens      int    `mapstructure:"max_tokens"`
	BatchSize      int    `mapstructure:"batch_size"`

	Timezone        string `mapstructure:"timezone"`
	BusinessHourEnd int    `mapstructure:"business_hour_end"`

	MetaProject   string   `mapstructure:"meta_project"`
	OverdueFilter string   `mapstructure:"overdue_filter"`
	TodayFilter   string   `mapstructure:"today_filter"`
	NoLabelFilter string   `mapstructure:"no_label_filter"`
	Labels        []string `mapstructure:"labels"`
}

// Options locate the optional config sources. Empty paths mean the defaults,
// which are allowed to be absent; explicitly named files must exist.
type Options struct {
	ConfigPath string
	EnvFile    string
}

// envNames maps config keys to the environment variables that set them.
var envNames = map[string]string{
	"todoist_api_token": "TODOIST_API_TOKEN",
	"anthropic_api_key": "ANTHROPIC_API_KEY",
	"todoist_base_url":  "ORGANIZER_TODOIST_BASE_URL",
	"llm_base_url":      "ORGANIZER_LLM_BASE_URL",
	"model":             "ORGANIZER_MODEL",
	"max_tokens":        "ORGANIZER_MAX_TOKENS",
	"batch_size":        "ORGANIZER_BATCH_SIZE",
	"timezone":          "ORGANIZER_TIMEZONE",
	"business_hour_end": "ORGANIZER_BUSINESS_HOUR_END",
	"meta_project":      "ORGANIZER_META_PROJECT",
	"overdue_filter":    "ORGANIZER_OVERDUE_FILTER",
	"today_filter":      "ORGANIZER_TODAY_FILTER",
	"no_label_filter":   "ORGANIZER_NO_LABEL_FILTER",
	"labels":            "ORGANIZER_LABELS",
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		TodoistBaseURL:  "https://api.todoist.com/api/v1",
		LLMBaseURL:      "https://api.anthropic.com/v1/",
		Model:           "claude-haiku-4-5-20251001",
		MaxTokens:       2000,
		BatchSize:       30,
		Timezone:        "US/Central",
		BusinessHourEnd: 18, // 6pm
		MetaProject:     "Meta",
		OverdueFilter:   "##Meta & overdue",
		TodayFilter:     "##Meta & today",
		NoLabelFilter:   "no labels & !##Meta & !##Movies to Watch & !#World of Warcraft & !#Someday & !#Birthdays",
		Labels:          []string{"home", "pc", "anywhere"},
	}
}

func GetConfigPath() (string, error) {
	dir, err := auth.GetXdgHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the .env file into the process environment (without overriding
// variables that are already set), then layers environment over the YAML
// config file over Default.
func Load(opts Options) (*Config, error) {
	envPath := opts.EnvFile
	if envPath == "" {
		envPath = envFile
	}
	if err := godotenv.Load(envPath); err != nil {
		if opts.EnvFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
		}
	}

	v := viper.New()
	setDefaults(v, Default())
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	path := opts.ConfigPath
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if opts.ConfigPath != "" {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("todoist_base_url", def.TodoistBaseURL)
	v.SetDefault("llm_base_url", def.LLMBaseURL)
	v.SetDefault("model", def.Model)
	v.SetDefault("max_tokens", def.MaxTokens)
	v.SetDefault("batch_size", def.BatchSize)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("business_hour_end", def.BusinessHourEnd)
	v.SetDefault("meta_project", def.MetaProject)
	v.SetDefault("overdue_filter", def.OverdueFilter)
	v.SetDefault("today_filter", def.TodayFilter)
	v.SetDefault("no_label_filter", def.NoLabelFilter)
	v.SetDefault("labels", def.Labels)
	v.SetDefault("todoist_api_token", "")
	v.SetDefault("anthropic_api_key", "")
}

// MissingError names every required variable that was not set.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("Missing required environment variables: %s\nPlease set them in your .env file or environment.",
		strings.Join(e.Names, ", "))
}

// Validate must pass before any client performs I/O.
func (c *Config) Validate() error {
	var missing []string
	if c.TodoistAPIToken == "" {
		missing = append(missing, envNames["todoist_api_token"])
	}
	if c.AnthropicAPIKey == "" {
		missing = append(missing, envNames["anthropic_api_key"])
	}
	if len(missing) > 0 {
		return &MissingError{Names: missing}
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if c.BusinessHourEnd < 0 || c.BusinessHourEnd > 23 {
		return fmt.Errorf("business_hour_end must be between 0 and 23, got %d", c.BusinessHourEnd)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if len(c.Labels) == 0 {
		return errors.New("at least one label must be configured")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
