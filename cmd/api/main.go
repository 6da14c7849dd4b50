package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"github.com/lmnop/uniswap-v2-periphery/internal/config"
	"github.com/lmnop/uniswap-v2-periphery/internal/eth"
	"github.com/lmnop/uniswap-v2-periphery/internal/handler"
	"github.com/lmnop/uniswap-v2-periphery/internal/logging"
	"github.com/lmnop/uniswap-v2-periphery/internal/metrics"
	"github.com/lmnop/uniswap-v2-periphery/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	whitelist, err := config.LoadWhitelist(cfg.WhitelistFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ethereumClient, err := eth.Dial(ctx, cfg.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to Ethereum node: %w", err)
	}

	m := metrics.New()
	pairs := eth.NewPairReader(ethereumClient)
	routerCfg := cfg.RouterConfig()
	quoteService := service.NewQuoteService(logger, pairs, routerCfg)
	simulationService := service.NewSimulationService(logger, pairs, routerCfg, whitelist, m)

	handler.Register(app, handler.Handlers{
		Estimate:  handler.NewEstimateHandler(logger, quoteService),
		Amounts:   handler.NewAmountsHandler(logger, quoteService),
		Liquidity: handler.NewLiquidityHandler(logger, quoteService),
		Simulate:  handler.NewSimulateHandler(logger, simulationService),
	}, m)

	logger.Info("starting router api",
		"addr", cfg.Addr,
		"factory", cfg.Factory.Hex(),
		"weth", cfg.WETH.Hex(),
		"fee", cfg.Fee.String(),
		"whitelist", whitelist != nil && whitelist.Enabled(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			ethereumClient.Close()
			return fmt.Errorf("server error: %w", err)
		}
		ethereumClient.Close()
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_ = app.ShutdownWithContext(shutdownCtx)

	ethereumClient.Close()
	return nil
}
