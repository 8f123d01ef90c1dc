package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"airdrop-backend/internal/catalog"
	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/config"
	accounthttp "airdrop-backend/internal/features/account/delivery/http"
	accountservice "airdrop-backend/internal/features/account/service"
	airdrophttp "airdrop-backend/internal/features/airdrop/delivery/http"
	airdroppostgres "airdrop-backend/internal/features/airdrop/repository/postgres"
	airdropservice "airdrop-backend/internal/features/airdrop/service"
	apphttp "airdrop-backend/internal/http"
	"airdrop-backend/internal/platform/chain"
	"airdrop-backend/internal/platform/db"
	"airdrop-backend/internal/platform/oauth"
	redisplatform "airdrop-backend/internal/platform/redis"
	"airdrop-backend/internal/queue"
	"airdrop-backend/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("airdrop-api", false)
		logger.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init("airdrop-api", cfg.Debug)

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
	logger.Info().Int("nfts", cat.Len()).Msg("catalog loaded")

	repo := airdroppostgres.NewPostgresRepository(pg)
	mintQueue := queue.NewMintQueue(rdb)

	httpClient := oauth.NewHTTPClient()
	providers := []oauth.Provider{
		oauth.NewGitHub(httpClient, cfg.OwnerGitHubUsername),
		oauth.NewTwitter(httpClient, cfg.OwnerTwitterUsername),
	}

	accountSvc := accountservice.NewAccountService(cfg.Sites(), providers, repo)
	airdropSvc := airdropservice.NewAirdropService(repo, mintQueue, cat)

	// Minters are optional here; only /debug/minter reads them.
	minters := map[string]chain.Minter{}
	if cfg.MinterPrivateKey != "" {
		for chainName, endpoint := range cfg.RPCEndpoints {
			minter, err := chain.Dial(ctx, chainName, endpoint, cfg.MinterPrivateKey)
			if err != nil {
				logger.Warn().Err(err).Str("chain", chainName).Msg("minter unavailable")
				continue
			}
			defer minter.Close()
			minters[chainName] = minter
		}
	}

	router := apphttp.NewRouter(
		cfg,
		session.NewCodec(cfg.SecretKey),
		accounthttp.NewAccountHandler(accountSvc),
		airdrophttp.NewAirdropHandler(airdropSvc),
		apphttp.NewDebugHandler(airdropSvc, minters),
	)

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
