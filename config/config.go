package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Uniswap V2 mainnet deployments
const (
	DefaultRouterAddress  = "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"
	DefaultFactoryAddress = "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"
	DefaultWETHAddress    = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"

	infuraMainnetURL = "https://mainnet.infura.io/v3/"
)

// Config holds the application configuration
type Config struct {
	RPCURL          string
	InfuraProjectID string
	PrivateKey      string
	ChainID         int64

	Router  common.Address
	Factory common.Address
	WETH    common.Address

	ReceiptTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables and an optional config file.
// An explicit path replaces the default search locations.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".evm-swap")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	// Set default values
	v.SetDefault("chain_id", 1)
	v.SetDefault("router_address", DefaultRouterAddress)
	v.SetDefault("factory_address", DefaultFactoryAddress)
	v.SetDefault("weth_address", DefaultWETHAddress)
	v.SetDefault("receipt_timeout", 5*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Read from environment variables
	v.SetEnvPrefix("EVM_SWAP")
	v.AutomaticEnv()

	// The unprefixed names are what existing .env files carry
	for key, env := range map[string]string{
		"rpc_url":           "RPC_URL",
		"infura_project_id": "INFURA_PROJECT_ID",
		"private_key":       "PRIVATE_KEY",
	} {
		if err := v.BindEnv(key, "EVM_SWAP_"+env, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The router deadline is always now+20m
	if v.IsSet("deadline") {
		return nil, fmt.Errorf("deadline is fixed at 20m and cannot be configured")
	}

	cfg := &Config{
		RPCURL:          v.GetString("rpc_url"),
		InfuraProjectID: v.GetString("infura_project_id"),
		PrivateKey:      v.GetString("private_key"),
		ChainID:         v.GetInt64("chain_id"),
		ReceiptTimeout:  v.GetDuration("receipt_timeout"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
	}

	var err error
	if cfg.Router, err = parseAddress("router_address", v.GetString("router_address")); err != nil {
		return nil, err
	}
	if cfg.Factory, err = parseAddress("factory_address", v.GetString("factory_address")); err != nil {
		return nil, err
	}
	if cfg.WETH, err = parseAddress("weth_address", v.GetString("weth_address")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Endpoint returns the RPC URL, falling back to Infura mainnet when only a project ID is set.
func (c *Config) Endpoint() (string, error) {
	if c.RPCURL != "" {
		return c.RPCURL, nil
	}
	if c.InfuraProjectID != "" {
		return infuraMainnetURL + c.InfuraProjectID, nil
	}
	return "", fmt.Errorf("RPC endpoint not found. Please set RPC_URL or INFURA_PROJECT_ID")
}

// Validate checks the settings every command needs
func (c *Config) Validate() error {
	if _, err := c.Endpoint(); err != nil {
		return err
	}
	if c.ChainID <= 0 {
		return fmt.Errorf("chain_id must be positive, got %d", c.ChainID)
	}
	if c.ReceiptTimeout < 0 {
		return fmt.Errorf("receipt_timeout must not be negative, got %s", c.ReceiptTimeout)
	}
	return nil
}

// ValidateSigner additionally requires the private key
func (c *Config) ValidateSigner() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.PrivateKey == "" {
		return fmt.Errorf("private key not found. Please set the PRIVATE_KEY environment variable")
	}
	return nil
}

func parseAddress(key, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s: %q", key, value)
	}
	return common.HexToAddress(value), nil
}
