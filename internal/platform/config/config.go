package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PaymentFlow selects which payment strategy the checkout orchestrator uses.
type PaymentFlow string

const (
	// FlowHostedRedirect sends the customer to a processor-hosted page.
	FlowHostedRedirect PaymentFlow = "hosted_redirect"
	// FlowEmbeddedWidget opens the processor's in-page widget.
	FlowEmbeddedWidget PaymentFlow = "embedded_widget"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Redis   RedisConfig
	Session SessionConfig
	Payment PaymentConfig
	Search  SearchConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// APIConfig points at the remote commerce API the storefront calls.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig locates the cart store backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig controls the signed storefront session cookie.
type SessionConfig struct {
	SigningKey string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// PaymentConfig selects the payment flow and resolver pacing.
type PaymentConfig struct {
	Flow         PaymentFlow
	Currency     string
	WidgetScript string
	PollInterval time.Duration
	PollAttempts int
}

// SearchConfig tunes the debounced suggestion dispatcher.
type SearchConfig struct {
	DebounceInterval time.Duration
	MinQueryLength   int
}

// Load reads configuration from the environment (NEELAM_ prefix) and an
// optional config file, applying defaults for everything unset.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NEELAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)

	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", 8*time.Second)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.cookie_name", "neelam_session")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("payment.flow", string(FlowHostedRedirect))
	v.SetDefault("payment.currency", "INR")
	v.SetDefault("payment.widget_script", "https://checkout.razorpay.com/v1/checkout.js")
	v.SetDefault("payment.poll_interval", 2*time.Second)
	v.SetDefault("payment.poll_attempts", 5)

	v.SetDefault("search.debounce_interval", 300*time.Millisecond)
	v.SetDefault("search.min_query_length", 2)

	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("api.base_url")), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: SessionConfig{
			SigningKey: v.GetString("session.signing_key"),
			CookieName: v.GetString("session.cookie_name"),
			TTL:        v.GetDuration("session.ttl"),
			Secure:     v.GetBool("session.secure"),
		},
		Payment: PaymentConfig{
			Flow:         PaymentFlow(strings.ToLower(strings.TrimSpace(v.GetString("payment.flow")))),
			Currency:     strings.ToUpper(strings.TrimSpace(v.GetString("payment.currency"))),
			WidgetScript: v.GetString("payment.widget_script"),
			PollInterval: v.GetDuration("payment.poll_interval"),
			PollAttempts: v.GetInt("payment.poll_attempts"),
		},
		Search: SearchConfig{
			DebounceInterval: v.GetDuration("search.debounce_interval"),
			MinQueryLength:   v.GetInt("search.min_query_length"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url is required")
	}
	switch c.Payment.Flow {
	case FlowHostedRedirect, FlowEmbeddedWidget:
	default:
		return fmt.Errorf("config: unknown payment.flow %q", c.Payment.Flow)
	}
	if c.Payment.PollAttempts <= 0 {
		return errors.New("config: payment.poll_attempts must be positive")
	}
	if c.Payment.PollInterval <= 0 {
		return errors.New("config: payment.poll_interval must be positive")
	}
	return nil
}
