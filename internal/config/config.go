// Package config builds the process-wide configuration once at startup.
// Values come from defaults, an optional YAML file and BAP_* environment
// variables, in increasing precedence. The resulting Config is treated as
// immutable and passed explicitly to the components that need it.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (BAP_SERVER_PORT, ...).
const EnvPrefix = "BAP"

// ZeroAddress is the placeholder for unset contract addresses.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Config is the root configuration.
type Config struct {
	Network   string          `mapstructure:"network" validate:"required,oneof=testnet mainnet devnet"`
	ChainID   int64           `mapstructure:"chain_id" validate:"gte=0"`
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Contracts ContractsConfig `mapstructure:"contracts"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Paging    PagingConfig    `mapstructure:"paging"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisConfig enables the shared cache layer.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0,lte=15"`
}

// CacheConfig controls response caching.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Size    int           `mapstructure:"size" validate:"gte=1"`
}

// ContractsConfig lists the well-known contract addresses.
type ContractsConfig struct {
	NFT   string `mapstructure:"nft" validate:"eth_addr"`
	Token string `mapstructure:"token" validate:"eth_addr"`
	NFX   string `mapstructure:"nfx" validate:"eth_addr"`
}

// ChainConfig shapes the synthetic resource spaces.
type ChainConfig struct {
	// CurrentHeight is the tip of the block source.
	CurrentHeight int64 `mapstructure:"current_height" validate:"gte=1"`

	// AnchorTime is the timestamp of the tip. Zero means process start.
	AnchorTime time.Time `mapstructure:"anchor_time"`

	BlockInterval       time.Duration `mapstructure:"block_interval" validate:"gt=0"`
	TransactionTotal    int           `mapstructure:"transaction_total" validate:"gte=0"`
	TransactionInterval time.Duration `mapstructure:"transaction_interval" validate:"gt=0"`
	PenaltySpace        int           `mapstructure:"penalty_space" validate:"gte=0"`
	PenaltyMaxAttempts  int           `mapstructure:"penalty_max_attempts" validate:"gte=1"`
	PenaltyExactTotal   bool          `mapstructure:"penalty_exact_total"`
	PenaltyInterval     time.Duration `mapstructure:"penalty_interval" validate:"gt=0"`
	PoolCatalog         int           `mapstructure:"pool_catalog" validate:"gte=0"`
	NFXCatalog          int           `mapstructure:"nfx_catalog" validate:"gte=0"`
	NFTSupply           int           `mapstructure:"nft_supply" validate:"gte=0"`
	ActiveValidators    int           `mapstructure:"active_validators" validate:"gte=0"`
}

// PagingConfig bounds list requests.
type PagingConfig struct {
	MaxLimit int `mapstructure:"max_limit" validate:"gte=1"`
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Pretty bool   `mapstructure:"pretty"`
}

var defaults = map[string]any{
	"network":                    "testnet",
	"chain_id":                   80001,
	"server.host":                "0.0.0.0",
	"server.port":                8080,
	"server.read_timeout":        "10s",
	"server.write_timeout":       "15s",
	"server.shutdown_timeout":    "10s",
	"redis.enabled":              false,
	"redis.addr":                 "localhost:6379",
	"redis.password":             "",
	"redis.db":                   0,
	"cache.enabled":              true,
	"cache.ttl":                  "30s",
	"cache.size":                 1024,
	"contracts.nft":              ZeroAddress,
	"contracts.token":            ZeroAddress,
	"contracts.nfx":              ZeroAddress,
	"chain.current_height":       10000,
	"chain.block_interval":       "3m",
	"chain.transaction_total":    50000,
	"chain.transaction_interval": "2m",
	"chain.penalty_space":        150,
	"chain.penalty_max_attempts": 100,
	"chain.penalty_exact_total":  false,
	"chain.penalty_interval":     "12h",
	"chain.pool_catalog":         12,
	"chain.nfx_catalog":          50,
	"chain.nft_supply":           200,
	"chain.active_validators":    42,
	"paging.max_limit":           100,
	"log.level":                  "info",
	"log.pretty":                 false,
}

// Default returns the configuration produced by defaults alone, with the
// anchor time fixed to now.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// Load reads the configuration. path may be empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("chain.anchor_time"); err != nil {
		return nil, fmt.Errorf("bind anchor time env: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Chain.AnchorTime.IsZero() {
		cfg.Chain.AnchorTime = time.Now().UTC().Truncate(time.Minute)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
