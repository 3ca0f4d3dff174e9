package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tradebot/internal/auth"
	"tradebot/internal/binance"
	"tradebot/internal/config"
	"tradebot/internal/orders"
	"tradebot/internal/rest"
)

const usage = `Usage: tradebot <command> [flags]

Commands:
  place      Place an order (market, limit or stop-limit)
  cancel     Cancel an open order
  status     Show a single order
  orders     List open orders
  history    List past orders for a symbol
  balance    Show an asset balance
  leverage   Set leverage for a symbol
  positions  Show open positions
  test       Check connectivity and credentials

Run 'tradebot <command> -h' for command flags.

Configuration is read from the environment (and .env if present):
  BINANCE_API_KEY, BINANCE_API_SECRET, BINANCE_BASE_URL,
  BINANCE_TIMEOUT, BINANCE_MAX_RETRIES, BINANCE_RECV_WINDOW, LOG_LEVEL
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if command == "-h" || command == "--help" || command == "help" {
		fmt.Fprint(os.Stderr, usage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)
	log.Debug().Str("config", cfg.String()).Msg("Configuration loaded")

	manager, client := buildManager(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &app{manager: manager, client: client, cfg: cfg, out: os.Stdout}

	var ok bool
	switch command {
	case "place":
		ok = app.runPlace(ctx, args)
	case "cancel":
		ok = app.runCancel(ctx, args)
	case "status":
		ok = app.runStatus(ctx, args)
	case "orders":
		ok = app.runOpenOrders(ctx, args)
	case "history":
		ok = app.runHistory(ctx, args)
	case "balance":
		ok = app.runBalance(ctx, args)
	case "leverage":
		ok = app.runLeverage(ctx, args)
	case "positions":
		ok = app.runPositions(ctx, args)
	case "test":
		ok = app.runTest(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", command, usage)
		os.Exit(2)
	}

	if !ok {
		os.Exit(1)
	}
}

func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func buildManager(cfg *config.Config) (*orders.Manager, *binance.Client) {
	signer := auth.NewSignerWithRecvWindow(cfg.Binance.APIKey, cfg.Binance.SecretKey, cfg.Binance.RecvWindow)

	restClient := rest.NewClient(cfg.Binance.BaseURL, signer,
		rest.WithTimeout(cfg.Binance.Timeout),
		rest.WithMaxAttempts(cfg.Binance.MaxRetries),
		rest.WithLogger(log.Logger),
	)

	apiClient, err := binance.NewClient(restClient, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create API client")
	}

	return orders.NewManager(apiClient, log.Logger), apiClient
}
