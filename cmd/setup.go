package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/briandowns/spinner"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"evm-swap/config"
	"evm-swap/pkg/client"
	"evm-swap/pkg/logger"
	"evm-swap/pkg/oracle"
	"evm-swap/pkg/signer"
	"evm-swap/pkg/swap"
)

// session is everything one command invocation holds open
type session struct {
	cfg    *config.Config
	log    *log.Logger
	client *client.EthereumClient
	oracle *oracle.Oracle
	signer *signer.Signer
	json   bool
}

// openSession loads config, connects to the node and checks it serves the
// configured chain. The signer is only loaded when withSigner is set.
func openSession(cmd *cobra.Command, withSigner bool) (*session, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if withSigner {
		err = cfg.ValidateSigner()
	} else {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	s := &session{
		cfg:  cfg,
		log:  logger.New(os.Stderr, level, cfg.LogFormat),
		json: jsonOutput,
	}

	endpoint, _ := cfg.Endpoint()
	ctx := cmd.Context()

	s.client, err = client.Dial(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID.Cmp(big.NewInt(cfg.ChainID)) != 0 {
		s.Close()
		return nil, fmt.Errorf("node serves chain %s but chain_id is %d", chainID, cfg.ChainID)
	}

	s.oracle, err = oracle.New(s.client, cfg.Factory)
	if err != nil {
		s.Close()
		return nil, err
	}

	if withSigner {
		s.signer, err = signer.New(cfg.PrivateKey)
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	s.log.WithFields(log.Fields{"chain_id": cfg.ChainID, "router": cfg.Router.Hex()}).Debug("connected")
	return s, nil
}

// executor builds a swap executor; wait controls receipt polling
func (s *session) executor(wait bool) (*swap.Executor, error) {
	// Quote-only sessions have no signer; the executor never reaches it
	var sg swap.Signer
	if s.signer != nil {
		sg = s.signer
	}

	return swap.NewExecutor(s.oracle, s.client, sg, swap.Config{
		ChainID:        big.NewInt(s.cfg.ChainID),
		Router:         s.cfg.Router,
		WETH:           s.cfg.WETH,
		ReceiptTimeout: s.cfg.ReceiptTimeout,
		Wait:           wait,
	}, s.log)
}

// Close releases the key and the connection
func (s *session) Close() {
	if s.signer != nil {
		s.signer.Close()
	}
	if s.client != nil {
		s.client.Close()
	}
}

// spin shows a spinner on stderr unless JSON output was requested
func (s *session) spin(suffix string) func() {
	if s.json {
		return func() {}
	}
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + suffix
	sp.Start()
	return sp.Stop
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}
