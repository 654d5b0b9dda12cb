package swap

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const swapMethod = "swapExactTokensForETH"

// Uniswap V2 Router02 fragment
const routerABI = `[{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactTokensForETH","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}]`

func parseRouterABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(routerABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse router ABI: %w", err)
	}
	return parsed, nil
}

func packSwap(router abi.ABI, amountIn, amountOutMin *big.Int, path [2]common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	data, err := router.Pack(swapMethod, amountIn, amountOutMin, path[:], to, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", swapMethod, err)
	}
	return data, nil
}
