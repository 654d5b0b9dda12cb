package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"evm-swap/pkg/quote"
	"evm-swap/pkg/types"
)

// SwapArgs are the raw positional arguments of the swap and quote commands
type SwapArgs struct {
	Token     string `validate:"required,eip55,eth_addr"`
	Amount    string `validate:"required"`
	Slippage  string `validate:"required"`
	Recipient string `validate:"required,eip55,eth_addr,nonzero_addr"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("eip55", validateChecksum); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("nonzero_addr", validateNonZeroAddress); err != nil {
		panic(err)
	}
	return v
}

// validateChecksum accepts all-lower or all-upper hex; mixed case must match EIP-55.
// It runs before eth_addr, which also rejects bad checksums but with a
// generic message, and leaves malformed input to eth_addr.
func validateChecksum(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !common.IsHexAddress(s) {
		return true
	}
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return common.HexToAddress(s).Hex() == "0x"+body
}

func validateNonZeroAddress(fl validator.FieldLevel) bool {
	return common.HexToAddress(fl.Field().String()) != (common.Address{})
}

// ParseSwapArgs parses and validates: <token> <amount> <slippage-pct> <recipient>
// Examples:
//   - "0x6B175474E89094C44Da98b954EedeAC495271d0F 1 0.5 0xYourWallet"
//   - "0x6b175474e89094c44da98b954eedeac495271d0f 250.75 1 0xYourWallet"
func ParseSwapArgs(args []string) (*types.SwapRequest, error) {
	if len(args) != 4 {
		return nil, fmt.Errorf("invalid swap arguments. Expected: '<token> <amount> <slippage-pct> <recipient>', got %d arguments", len(args))
	}

	raw := SwapArgs{
		Token:     strings.TrimSpace(args[0]),
		Amount:    strings.TrimSpace(args[1]),
		Slippage:  strings.TrimSpace(strings.TrimSuffix(args[2], "%")),
		Recipient: strings.TrimSpace(args[3]),
	}
	return raw.Parse()
}

// Parse validates the raw arguments and converts them into a SwapRequest
func (a SwapArgs) Parse() (*types.SwapRequest, error) {
	if err := validate.Struct(a); err != nil {
		return nil, describe(err)
	}

	amount, err := ParseAmount(a.Amount)
	if err != nil {
		return nil, err
	}

	bps, err := ParseSlippage(a.Slippage)
	if err != nil {
		return nil, err
	}

	return &types.SwapRequest{
		Token:       common.HexToAddress(a.Token),
		AmountIn:    amount,
		SlippageBps: bps,
		Recipient:   common.HexToAddress(a.Recipient),
	}, nil
}

// ParseAmount parses a positive decimal amount in human units
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: not a decimal number", s)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid amount %q: must be greater than 0", s)
	}
	return amount, nil
}

// ParseSlippage converts a percentage in [0, 100] into whole basis points.
// Precision finer than 0.01% cannot be expressed and is rejected.
func ParseSlippage(s string) (uint32, error) {
	pct, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid slippage %q: not a decimal number", s)
	}
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return 0, fmt.Errorf("invalid slippage %q: must be between 0 and 100", s)
	}

	bps := pct.Shift(2)
	if !bps.IsInteger() {
		return 0, fmt.Errorf("invalid slippage %q: at most two decimal places (0.01%%) are supported", s)
	}

	v := bps.IntPart()
	if v > quote.MaxSlippageBps {
		return 0, fmt.Errorf("invalid slippage %q: must be between 0 and 100", s)
	}
	return uint32(v), nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "eth_addr":
			msgs = append(msgs, fmt.Sprintf("%s %q is not a valid address", field, fe.Value()))
		case "eip55":
			msgs = append(msgs, fmt.Sprintf("%s %q has an invalid checksum", field, fe.Value()))
		case "nonzero_addr":
			msgs = append(msgs, fmt.Sprintf("%s must not be the zero address", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// ParseAddress validates a single token or account address
func ParseAddress(field, s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if err := validate.Var(s, "required,eip55,eth_addr"); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Tag() == "eip55" {
			return common.Address{}, fmt.Errorf("%s %q has an invalid checksum", field, s)
		}
		return common.Address{}, fmt.Errorf("%s %q is not a valid address", field, s)
	}
	return common.HexToAddress(s), nil
}

// ParseTxHash validates a 0x-prefixed 32-byte transaction hash
func ParseTxHash(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") || validate.Var(s, "len=66,hexadecimal") != nil {
		return common.Hash{}, fmt.Errorf("invalid transaction hash %q", s)
	}
	return common.HexToHash(s), nil
}

// ParseAllowance parses a non-negative approval amount; zero revokes
func ParseAllowance(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: not a decimal number", s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	return amount, nil
}
