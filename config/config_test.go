package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	t.Setenv("PRIVATE_KEY", "0xabc")

	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8545", cfg.RPCURL)
	assert.Equal(t, int64(31337), cfg.ChainID)
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), cfg.Router)
	assert.Equal(t, common.HexToAddress(DefaultFactoryAddress), cfg.Factory)
	assert.Equal(t, common.HexToAddress(DefaultWETHAddress), cfg.WETH)
	assert.Equal(t, 5*time.Minute, cfg.ReceiptTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0xabc", cfg.PrivateKey)
	assert.NoError(t, cfg.ValidateSigner())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEndpointFallsBackToInfura(t *testing.T) {
	cfg := &Config{InfuraProjectID: "abc123"}
	url, err := cfg.Endpoint()
	require.NoError(t, err)
	assert.Equal(t, "https://mainnet.infura.io/v3/abc123", url)

	_, err = (&Config{}).Endpoint()
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INFURA_PROJECT_ID", "proj")
	t.Setenv("EVM_SWAP_CHAIN_ID", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "proj", cfg.InfuraProjectID)
	assert.Equal(t, int64(5), cfg.ChainID)
	assert.Equal(t, 5*time.Minute, cfg.ReceiptTimeout)
	assert.NoError(t, cfg.Validate())
	assert.Error(t, cfg.ValidateSigner(), "private key is required")
}

func TestLoadRejectsBadAddress(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EVM_SWAP_WETH_ADDRESS", "not-an-address")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsDeadline(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "deadline.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline")

	t.Setenv("HOME", t.TempDir())
	t.Setenv("EVM_SWAP_DEADLINE", "5m")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadPrefixedEnvNames(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EVM_SWAP_RPC_URL", "http://node:8545")
	t.Setenv("EVM_SWAP_PRIVATE_KEY", "0xdef")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://node:8545", cfg.RPCURL)
	assert.Equal(t, "0xdef", cfg.PrivateKey)
}
