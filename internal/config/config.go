// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. LAUNCHPAD_RPC_URL.
const EnvPrefix = "LAUNCHPAD"

type Config struct {
	RPCURL          string  `mapstructure:"rpc_url"`
	Commitment      string  `mapstructure:"commitment"`
	AggregatorURL   string  `mapstructure:"aggregator_url"`
	AggregatorRPS   float64 `mapstructure:"aggregator_rps"`
	ExplorerURL     string  `mapstructure:"explorer_url"`
	KeypairPath     string  `mapstructure:"keypair_path"`
	DefaultSlippage float64 `mapstructure:"default_slippage"`

	QuoteTimeoutMS   int `mapstructure:"quote_timeout_ms"`
	QuoteDebounceMS  int `mapstructure:"quote_debounce_ms"`
	RefreshDelayMS   int `mapstructure:"refresh_delay_ms"`
	RefreshTries     int `mapstructure:"refresh_tries"`
	PollIntervalMS   int `mapstructure:"poll_interval_ms"`
	ConfirmTimeoutMS int `mapstructure:"confirm_timeout_ms"`

	PriorityFeeMicroLamports uint64 `mapstructure:"priority_fee_micro_lamports"`
	ComputeUnitLimit         uint32 `mapstructure:"compute_unit_limit"`

	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
	HistoryFile  string `mapstructure:"history_file"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
}

const (
	DefaultRPCURL           = "https://api.devnet.solana.com"
	DefaultCommitment       = "confirmed"
	DefaultAggregatorURL    = "https://quote-api.jup.ag/v6"
	DefaultAggregatorRPS    = 2
	DefaultExplorerURL      = "explorer.solana.com"
	DefaultSlippage         = 0.5
	DefaultQuoteTimeoutMS   = 5000
	DefaultQuoteDebounceMS  = 500
	DefaultRefreshDelayMS   = 3000
	DefaultRefreshTries     = 3
	DefaultPollIntervalMS   = 500
	DefaultConfirmTimeoutMS = 90000

	MinSlippage = 0.1
	MaxSlippage = 50
)

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"rpc_url":                     DefaultRPCURL,
		"commitment":                  DefaultCommitment,
		"aggregator_url":              DefaultAggregatorURL,
		"aggregator_rps":              DefaultAggregatorRPS,
		"explorer_url":                DefaultExplorerURL,
		"keypair_path":                "",
		"default_slippage":            DefaultSlippage,
		"quote_timeout_ms":            DefaultQuoteTimeoutMS,
		"quote_debounce_ms":           DefaultQuoteDebounceMS,
		"refresh_delay_ms":            DefaultRefreshDelayMS,
		"refresh_tries":               DefaultRefreshTries,
		"poll_interval_ms":            DefaultPollIntervalMS,
		"confirm_timeout_ms":          DefaultConfirmTimeoutMS,
		"priority_fee_micro_lamports": 0,
		"compute_unit_limit":          0,
		"debug_logging":               false,
		"log_file":                    "",
		"history_file":                "",
		"metrics_addr":                "",
	}
}

// LoadConfig reads path (JSON, YAML or TOML by extension) over the defaults and
// applies LAUNCHPAD_* environment overrides. An empty path uses defaults and
// environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := validateURL(c.RPCURL, "http"); err != nil {
		return fmt.Errorf("invalid rpc_url: %w", err)
	}
	if c.AggregatorURL != "" {
		if err := validateURL(c.AggregatorURL, "http"); err != nil {
			return fmt.Errorf("invalid aggregator_url: %w", err)
		}
	}
	switch rpc.CommitmentType(c.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("invalid commitment %q", c.Commitment)
	}
	if c.DefaultSlippage < MinSlippage || c.DefaultSlippage > MaxSlippage {
		return fmt.Errorf("default_slippage must be within [%v, %v]", MinSlippage, MaxSlippage)
	}
	if c.AggregatorRPS <= 0 {
		return errors.New("invalid aggregator_rps")
	}
	for name, ms := range map[string]int{
		"quote_timeout_ms":   c.QuoteTimeoutMS,
		"quote_debounce_ms":  c.QuoteDebounceMS,
		"refresh_delay_ms":   c.RefreshDelayMS,
		"poll_interval_ms":   c.PollIntervalMS,
		"confirm_timeout_ms": c.ConfirmTimeoutMS,
	} {
		if ms <= 0 {
			return fmt.Errorf("invalid %s", name)
		}
	}
	if c.RefreshTries <= 0 {
		return errors.New("invalid refresh_tries")
	}
	return nil
}

func validateURL(rawURL, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) || parsed.Host == "" {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (c *Config) QuoteTimeout() time.Duration   { return ms(c.QuoteTimeoutMS) }
func (c *Config) QuoteDebounce() time.Duration  { return ms(c.QuoteDebounceMS) }
func (c *Config) RefreshDelay() time.Duration   { return ms(c.RefreshDelayMS) }
func (c *Config) PollInterval() time.Duration   { return ms(c.PollIntervalMS) }
func (c *Config) ConfirmTimeout() time.Duration { return ms(c.ConfirmTimeoutMS) }

// CommitmentType returns the configured commitment for RPC reads and confirmation.
func (c *Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

// MaskedRPCURL hides query parameters, which often carry provider API keys.
func (c *Config) MaskedRPCURL() string {
	parsed, err := url.Parse(c.RPCURL)
	if err != nil || parsed.RawQuery == "" {
		return c.RPCURL
	}
	parsed.RawQuery = "***"
	return parsed.String()
}
