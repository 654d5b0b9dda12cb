// Package signer holds the private key used to sign swap transactions.
package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrClosed is returned when signing after Close
var ErrClosed = errors.New("signer is closed")

// Signer signs transactions with a key loaded once at startup.
// Close must be called when the process no longer needs the key.
type Signer struct {
	mu         sync.RWMutex
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// New parses a hex private key, with or without the 0x prefix
func New(hexKey string) (*Signer, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &Signer{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the account the key controls
func (s *Signer) Address() common.Address {
	return s.address
}

// SignTx signs tx for chainID with the EIP-155 signer
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.privateKey == nil {
		return nil, ErrClosed
	}

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signedTx, nil
}

// Close wipes the private scalar. It is safe to call more than once.
func (s *Signer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.privateKey == nil {
		return
	}
	s.privateKey.D.SetInt64(0)
	s.privateKey = nil
}
