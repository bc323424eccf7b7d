package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
)

// Config holds application configuration.
type Config struct {
	Environment      string        `env:"ENVIRONMENT" envDefault:"production"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	DatabaseURL      string        `env:"DATABASE_URL" validate:"required"`
	RedisURL         string        `env:"REDIS_URL" validate:"required"`
	PropertyCacheTTL time.Duration `env:"PROPERTY_CACHE_TTL" envDefault:"300s" validate:"gt=0"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	HTTPAddr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	SiteFeeds        []string      `env:"SITE_FEEDS" envSeparator:","`

	// Feeds maps site names to feed urls parsed from SiteFeeds.
	Feeds map[string]string `env:"-" validate:"-"`

	Translation Translation
	Google      Google
	Fallback    Fallback
	RabbitMQ    RabbitMQ
}

// Translation holds translation engine and cache configuration.
type Translation struct {
	BatchSize    int    `env:"TRANSLATION_BATCH_SIZE" envDefault:"10" validate:"gt=0"`
	BatchDelayMs int    `env:"TRANSLATION_BATCH_DELAY_MS" envDefault:"1000" validate:"gte=0"`
	CacheTTL     int    `env:"TRANSLATION_CACHE_TTL" envDefault:"86400" validate:"gt=0"`
	CacheMaxSize int    `env:"TRANSLATION_CACHE_MAX_SIZE" envDefault:"10000" validate:"gt=0"`
	CachePrefix  string `env:"TRANSLATION_CACHE_PREFIX" envDefault:"translation:"`
}

// BatchDelay returns delay between translated chunks.
func (t Translation) BatchDelay() time.Duration {
	return time.Duration(t.BatchDelayMs) * time.Millisecond
}

// CacheTTLDuration returns lifetime of cached translations.
func (t Translation) CacheTTLDuration() time.Duration {
	return time.Duration(t.CacheTTL) * time.Second
}

// Google holds Cloud Translation configuration.
type Google struct {
	ProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID" validate:"required"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Location        string `env:"GOOGLE_TRANSLATE_LOCATION" envDefault:"global"`
}

// Fallback holds fallback translation provider configuration.
type Fallback struct {
	Enabled bool   `env:"TRANSLATION_FALLBACK_ENABLED" envDefault:"false"`
	APIKey  string `env:"FALLBACK_API_KEY" validate:"required_if=Enabled true"`
	BaseURL string `env:"FALLBACK_BASE_URL"`
	Model   string `env:"FALLBACK_MODEL"`
}

// RabbitMQ holds RabbitMQ configuration. Commands are not consumed when URL is empty.
type RabbitMQ struct {
	URL        string `env:"RABBITMQ_URL"`
	Exchange   string `env:"RABBITMQ_EXCHANGE" envDefault:"ptp-ex"`
	Queue      string `env:"RABBITMQ_QUEUE" envDefault:"property-translation-pipeline.commands"`
	RoutingKey string `env:"RABBITMQ_ROUTING_KEY" envDefault:"ptp.cmd.process-site"`
}

// Load parses configuration from environment variables and validates it.
// All violations are reported in one error.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("can't parse env variables: %w", err)
	}

	problems := validate(&cfg)

	feeds, feedProblems := parseFeeds(cfg.SiteFeeds)
	problems = append(problems, feedProblems...)
	cfg.Feeds = feeds

	if len(problems) > 0 {
		return nil, errors.New("configuration is invalid:\n - " + strings.Join(problems, "\n - "))
	}

	return &cfg, nil
}

func validate(cfg *Config) []string {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("env"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	err := v.Struct(cfg)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		problems = append(problems, describe(fe))
	}

	return problems
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// parseFeeds parses site=url entries. Site names are lowercased.
func parseFeeds(entries []string) (map[string]string, []string) {
	feeds := make(map[string]string, len(entries))
	var problems []string

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		site, feedURL, ok := strings.Cut(entry, "=")
		site = strings.ToLower(strings.TrimSpace(site))
		feedURL = strings.TrimSpace(feedURL)
		if !ok || site == "" || !isHTTPURL(feedURL) {
			problems = append(problems, fmt.Sprintf("SITE_FEEDS entry %q must be site=http(s)://url", entry))
			continue
		}
		if _, exists := feeds[site]; exists {
			problems = append(problems, fmt.Sprintf("SITE_FEEDS has duplicated site %q", site))
			continue
		}

		feeds[site] = feedURL
	}

	return feeds, problems
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
