package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ferreirogomes/pedacin/blockchain_listener"
	"github.com/ferreirogomes/pedacin/config"
	"github.com/ferreirogomes/pedacin/handlers"
	"github.com/ferreirogomes/pedacin/metrics"
	"github.com/ferreirogomes/pedacin/services"
	"github.com/ferreirogomes/pedacin/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Falha fatal ao carregar configuração: %v", err)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Falha fatal ao inicializar logger: %v", err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	db, err := storage.NewDB(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalf("Falha fatal ao conectar ao banco de dados e aplicar migrações: %v", err)
	}
	defer db.Close()

	paymentService, err := services.NewSolanaPaymentService(cfg.SolanaRPCURL, cfg.CustodialKey, logger)
	if err != nil {
		logger.Fatalf("Falha ao inicializar serviço de pagamentos Solana: %v", err)
	}

	m := metrics.New()

	registryService := services.NewRegistryService(db, cfg.AdminID, logger, m)
	tokenService := services.NewTokenService(db, paymentService, logger, m)
	revenueService := services.NewRevenueService(db, paymentService, logger, m)
	governanceService := services.NewGovernanceService(db, logger, m)

	propertyHandler := handlers.NewPropertyHandler(registryService)
	tokenHandler := handlers.NewTokenHandler(tokenService)
	revenueHandler := handlers.NewRevenueHandler(revenueService)
	governanceHandler := handlers.NewGovernanceHandler(governanceService)
	investorHandler := handlers.NewInvestorHandler(db)

	// Inicia o listener de reconciliação de pagamentos em uma goroutine separada
	listener := blockchain_listener.NewPaymentListener(
		cfg.SolanaRPCURL, cfg.SolanaWSURL, db, paymentService.CustodialPubKey(), logger, m)
	go listener.StartListening(context.Background())
	logger.Info("Listener de pagamentos da blockchain iniciado.")

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Route("/investors", func(r chi.Router) {
		r.Post("/", investorHandler.CreateInvestor)
		r.Get("/{id}", investorHandler.GetInvestorByID)
	})

	r.Post("/payments/prepare", tokenHandler.PrepareCollect)

	r.Route("/properties", func(r chi.Router) {
		r.Post("/", propertyHandler.RegisterProperty)
		r.Get("/count", propertyHandler.CountProperties)
		r.Get("/{id}", propertyHandler.GetPropertyByID)
		r.Post("/{id}/deactivate", propertyHandler.DeactivateProperty)

		r.Post("/{id}/purchase", tokenHandler.Purchase)
		r.Get("/{id}/balance/{investorID}", tokenHandler.GetBalance)

		r.Post("/{id}/revenue/deposits", revenueHandler.Deposit)
		r.Get("/{id}/revenue/claimable/{investorID}", revenueHandler.GetClaimable)
		r.Post("/{id}/revenue/withdrawals", revenueHandler.Withdraw)

		r.Post("/{id}/proposals", governanceHandler.SubmitProposal)
		r.Get("/{id}/proposals/{proposalID}", governanceHandler.GetProposal)
		r.Post("/{id}/proposals/{proposalID}/votes", governanceHandler.CastVote)
		r.Post("/{id}/proposals/{proposalID}/execute", governanceHandler.ExecuteProposal)
	})

	r.Handle("/metrics", promhttp.Handler())

	logger.Infof("Servidor backend rodando na porta %s...", cfg.ListenAddr)
	logger.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}
