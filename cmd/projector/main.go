package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community-launchpad/internal/chain"
	"community-launchpad/internal/graduation"
	"community-launchpad/internal/ingestion"
	"community-launchpad/internal/notify"
	"community-launchpad/internal/observability"
	"community-launchpad/internal/projector"
	"community-launchpad/internal/storage"
	"community-launchpad/internal/storage/clickhouse"
	"community-launchpad/internal/storage/memory"
	"community-launchpad/internal/storage/migrations"
	pgstore "community-launchpad/internal/storage/postgres"
	"community-launchpad/internal/tier"
)

// Environment variables holding secrets that must not appear in argv.
const (
	envOperatorKey  = "LAUNCHPAD_OPERATOR_KEY"
	envNotifyAPIKey = "NOTIFY_API_KEY"
)

func main() {
	wsEndpoint := flag.String("ws-endpoint", "", "Chain-events WebSocket feed URL")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse DSN for the trade history mirror (empty to disable)")
	notifyEndpoint := flag.String("notify-endpoint", "", "Notification provider trigger URL (empty to disable)")
	thresholdTokens := flag.Int64("graduation-threshold", 1000, "Remaining liquidity, in whole tokens, below which a curve graduates")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	logger := log.New(os.Stdout, "[projector] ", log.LstdFlags|log.Lshortfile)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err := run(ctx, logger, *wsEndpoint, *postgresDSN, *clickhouseDSN, *notifyEndpoint, *thresholdTokens, *useMemory)

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

func run(ctx context.Context, logger *log.Logger, wsEndpoint, postgresDSN, clickhouseDSN, notifyEndpoint string, thresholdTokens int64, useMemory bool) error {
	if wsEndpoint == "" {
		return fmt.Errorf("--ws-endpoint is required")
	}
	if !useMemory && postgresDSN == "" {
		return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	// Create stores (use interfaces)
	memUsers := memory.NewUserStore()
	var transactor storage.Transactor = memory.NewTransactor()
	var userStore storage.UserStore = memUsers
	var addressStore storage.AddressStore = memory.NewAddressStore(memUsers)
	var communityStore storage.CommunityStore = memory.NewCommunityStore()
	var chainNodeStore storage.ChainNodeStore = memory.NewChainNodeStore()
	var tokenStore storage.TokenStore = memory.NewTokenStore()
	var tradeStore storage.TradeStore = memory.NewTradeStore()
	var activityStore storage.ActivityStore = memory.NewActivityStore()
	var outboxStore storage.OutboxStore = memory.NewOutboxStore()

	if !useMemory {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		transactor = pool
		userStore = pgstore.NewUserStore(pool)
		addressStore = pgstore.NewAddressStore(pool)
		communityStore = pgstore.NewCommunityStore(pool)
		chainNodeStore = pgstore.NewChainNodeStore(pool)
		tokenStore = pgstore.NewTokenStore(pool)
		tradeStore = pgstore.NewTradeStore(pool)
		activityStore = pgstore.NewActivityStore(pool)
		outboxStore = pgstore.NewOutboxStore(pool)
	}

	// Trade history mirror is optional; its absence never blocks projection.
	var historyStore storage.TradeHistoryStore
	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}
		defer conn.Close()
		historyStore = clickhouse.NewTradeHistoryStore(conn)
	}

	var notifier notify.Notifier = notify.Noop{}
	if notifyEndpoint != "" {
		notifier = notify.NewHTTPNotifier(notifyEndpoint, os.Getenv(envNotifyAPIKey))
	}

	operatorKey := os.Getenv(envOperatorKey)
	if operatorKey == "" {
		logger.Printf("WARN: %s not set, liquidity transfers will fail", envOperatorKey)
	}

	tiers := tier.NewEngine(tier.EngineOptions{
		Users:     userStore,
		Addresses: addressStore,
		Activity:  activityStore,
		Logger:    logger,
	})

	proj := projector.New(projector.Options{
		Transactor:  transactor,
		Trades:      tradeStore,
		Tokens:      tokenStore,
		Addresses:   addressStore,
		Communities: communityStore,
		Tiers:       tiers,
		History:     historyStore,
		Logger:      logger,
	})

	threshold := new(big.Int).Mul(big.NewInt(thresholdTokens),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

	grad := graduation.NewHandler(graduation.Options{
		Transactor:  transactor,
		Tokens:      tokenStore,
		Addresses:   addressStore,
		Communities: communityStore,
		Outbox:      outboxStore,
		Clients: func(ctx context.Context, rpcURL, launchpadAddress string) (chain.Client, error) {
			return chain.NewEthClient(ctx, rpcURL, launchpadAddress, chain.WithOperatorKey(operatorKey))
		},
		Notifier:    notifier,
		OperatorKey: operatorKey,
		Threshold:   threshold,
		Logger:      logger,
	})

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:     ingestion.NewWSTradeEventSource(wsEndpoint, logger),
		ChainNodes: chainNodeStore,
		Projector:  proj,
		Graduation: grad,
		Metrics:    observability.DefaultMetrics,
		Logger:     logger,
	})

	logger.Println("Starting trade event projection...")
	return runner.Run(ctx)
}
