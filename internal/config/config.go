package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lmnop/uniswap-v2-periphery/internal/router"
	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

// DefaultRouterAddress is the mainnet UniswapV2Router02. It only names the
// router inside simulations, so any address works off mainnet.
var DefaultRouterAddress = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

type Config struct {
	Addr          string
	RPCEndpoint   string
	LogLevel      string
	LogFormat     string
	Factory       common.Address
	InitCodeHash  common.Hash
	WETH          common.Address
	Router        common.Address
	Fee           uniswapv2.Fee
	MaxPathLength int
	WhitelistFile string
}

func FromEnv() (*Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":1337"
	}

	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		return nil, ErrMissingRPCEndpoint
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	cfg := &Config{
		Addr:          addr,
		RPCEndpoint:   rpcURL,
		LogLevel:      logLevel,
		LogFormat:     os.Getenv("LOG_FORMAT"),
		InitCodeHash:  uniswapv2.MainnetInitCodeHash,
		Fee:           uniswapv2.DefaultFee,
		MaxPathLength: uniswapv2.DefaultMaxPathLength,
		WhitelistFile: os.Getenv("WHITELIST_FILE"),
	}

	var err error
	if cfg.Factory, err = addressEnv("FACTORY_ADDRESS", uniswapv2.MainnetFactory); err != nil {
		return nil, err
	}
	if cfg.WETH, err = addressEnv("WETH_ADDRESS", uniswapv2.MainnetWETH); err != nil {
		return nil, err
	}
	if cfg.Router, err = addressEnv("ROUTER_ADDRESS", DefaultRouterAddress); err != nil {
		return nil, err
	}
	if s := os.Getenv("INIT_CODE_HASH"); s != "" {
		b := common.FromHex(s)
		if len(b) != common.HashLength {
			return nil, fmt.Errorf("%w: INIT_CODE_HASH", ErrInvalidHash)
		}
		cfg.InitCodeHash = common.BytesToHash(b)
	}
	if cfg.Fee.Numerator, err = uintEnv("FEE_NUMERATOR", cfg.Fee.Numerator); err != nil {
		return nil, err
	}
	if cfg.Fee.Denominator, err = uintEnv("FEE_DENOMINATOR", cfg.Fee.Denominator); err != nil {
		return nil, err
	}
	if err := cfg.Fee.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFee, err)
	}
	if s := os.Getenv("MAX_PATH_LENGTH"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 2 {
			return nil, fmt.Errorf("%w: MAX_PATH_LENGTH=%q", ErrInvalidNumber, s)
		}
		cfg.MaxPathLength = n
	}

	return cfg, nil
}

// RouterConfig returns the router settings shared by the quote and
// simulation services.
func (c *Config) RouterConfig() router.Config {
	return router.Config{
		Address:       c.Router,
		Factory:       c.Factory,
		InitCodeHash:  c.InitCodeHash,
		WETH:          c.WETH,
		Fee:           c.Fee,
		MaxPathLength: c.MaxPathLength,
	}
}

func addressEnv(key string, def common.Address) (common.Address, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %s=%q", ErrInvalidAddress, key, s)
	}
	return common.HexToAddress(s), nil
}

func uintEnv(key string, def uint64) (uint64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, key, s)
	}
	return n, nil
}
