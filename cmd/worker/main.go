package main

import (
	"context"
	"os/signal"
	"syscall"

	"airdrop-backend/internal/catalog"
	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/config"
	airdroppostgres "airdrop-backend/internal/features/airdrop/repository/postgres"
	"airdrop-backend/internal/platform/chain"
	"airdrop-backend/internal/platform/db"
	redisplatform "airdrop-backend/internal/platform/redis"
	"airdrop-backend/internal/queue"
	"airdrop-backend/internal/workers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("airdrop-worker", false)
		logger.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init("airdrop-worker", cfg.Debug)

	if cfg.MinterPrivateKey == "" {
		logger.Fatal().Msg("MINTER_PRIVATE_KEY is required")
	}

	pg, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres open failed")
	}
	defer pg.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pg); err != nil {
			logger.Fatal().Err(err).Msg("migrate failed")
		}
	}

	rdb, err := redisplatform.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis open failed")
	}
	defer rdb.Close()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("catalog load failed")
	}

	minters := map[string]chain.Minter{}
	for chainName, endpoint := range cfg.RPCEndpoints {
		minter, err := chain.Dial(ctx, chainName, endpoint, cfg.MinterPrivateKey)
		if err != nil {
			// A missing endpoint only affects jobs for that chain; the
			// worker drops them with a log.
			logger.Warn().Err(err).Str("chain", chainName).Msg("minter unavailable")
			continue
		}
		defer minter.Close()
		minters[chainName] = minter
		logger.Info().Str("chain", chainName).Str("address", minter.Address()).Msg("minter ready")
	}

	repo := airdroppostgres.NewPostgresRepository(pg)
	worker := workers.NewMintWorker(repo, cat, minters)

	queue.NewMintQueue(rdb).Consume(ctx, worker.Handle)
}
