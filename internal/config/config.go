package config

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Config is the full startup configuration. Contract addresses and
// operational knobs come from a YAML file; secrets come from the
// environment (loaded from .env by the entrypoint) and override any
// placeholder in the file. There is no runtime reconfiguration.
type Config struct {
	Chain struct {
		RPCEndpoint   string `yaml:"rpc_endpoint"`
		ChainID       string `yaml:"chain_id"`
		Router        string `yaml:"router"`
		Factory       string `yaml:"factory"`
		WrappedNative string `yaml:"wrapped_native"`
	} `yaml:"chain"`

	Trading struct {
		// BuyAmountWei is the fixed native-asset input per buy, in wei.
		BuyAmountWei string `yaml:"buy_amount_wei"`
		// MonitorIntervalSec is the position sweep cadence.
		MonitorIntervalSec int `yaml:"monitor_interval_sec"`
	} `yaml:"trading"`

	Feed struct {
		// SubscribeEndpoint is a websocket RPC endpoint used to watch the
		// factory for new pairs. Empty disables the watcher.
		SubscribeEndpoint string `yaml:"subscribe_endpoint"`
		// CandidateWS is an external websocket feed of candidate tokens.
		// Empty disables it.
		CandidateWS string `yaml:"candidate_ws"`
	} `yaml:"feed"`

	Explorer struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"explorer"`

	TradeLog struct {
		Path string `yaml:"path"`
	} `yaml:"trade_log"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	// Secrets, environment only.
	PrivateKey     string `yaml:"-"`
	ExplorerAPIKey string `yaml:"-"`
	TelegramToken  string `yaml:"-"`
	TelegramChatID string `yaml:"-"`
	RedisAddr      string `yaml:"-"`
}

// Load reads the YAML file at path, merges environment overrides and
// applies defaults. Validation is separate so the caller controls when a
// bad config becomes fatal.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RPC_ENDPOINT"); v != "" {
		c.Chain.RPCEndpoint = v
	}
	if v := os.Getenv("FEED_SUBSCRIBE_ENDPOINT"); v != "" {
		c.Feed.SubscribeEndpoint = v
	}
	c.PrivateKey = os.Getenv("PRIVATE_KEY")
	c.ExplorerAPIKey = os.Getenv("EXPLORER_API_KEY")
	c.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	c.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	c.RedisAddr = os.Getenv("REDIS_ADDR")
}

func (c *Config) applyDefaults() {
	if c.Trading.MonitorIntervalSec <= 0 {
		c.Trading.MonitorIntervalSec = 15
	}
	if c.TradeLog.Path == "" {
		c.TradeLog.Path = "trades.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate reports fatal misconfiguration. A missing signing key, RPC
// endpoint or malformed contract address should abort startup rather than
// degrade at the first trade.
func (c *Config) Validate() error {
	if c.PrivateKey == "" {
		return fmt.Errorf("PRIVATE_KEY is not set")
	}
	if c.Chain.RPCEndpoint == "" {
		return fmt.Errorf("chain.rpc_endpoint is not set")
	}
	if _, ok := new(big.Int).SetString(c.Chain.ChainID, 10); !ok {
		return fmt.Errorf("chain.chain_id %q is not a decimal integer", c.Chain.ChainID)
	}
	for name, addr := range map[string]string{
		"chain.router":         c.Chain.Router,
		"chain.factory":        c.Chain.Factory,
		"chain.wrapped_native": c.Chain.WrappedNative,
	} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%s %q is not a valid address", name, addr)
		}
	}
	if _, err := c.BuyAmount(); err != nil {
		return err
	}
	return nil
}

// BuyAmount parses the per-trade input size.
func (c *Config) BuyAmount() (*big.Int, error) {
	amount, ok := new(big.Int).SetString(c.Trading.BuyAmountWei, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("trading.buy_amount_wei %q is not a positive integer", c.Trading.BuyAmountWei)
	}
	return amount, nil
}

// MonitorInterval returns the sweep cadence as a duration.
func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Trading.MonitorIntervalSec) * time.Second
}
