package main

import (
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finbot/src/chatbot"
	"github.com/username/finbot/src/config"
	"github.com/username/finbot/src/handlers"
	"github.com/username/finbot/src/logger"
	"github.com/username/finbot/src/parsers"
	"golang.org/x/time/rate"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("FinBot server starting...")

	logger.L.Info("Loading data tables...",
		"holdings", config.Cfg.HoldingsCSVPath,
		"trades", config.Cfg.TradesCSVPath)
	ds, err := parsers.LoadDataset(config.Cfg.HoldingsCSVPath, config.Cfg.TradesCSVPath)
	if err != nil {
		// Fail fast: no queries are served without the tables.
		logger.L.Error("Failed to load data tables", "error", err)
		os.Exit(1)
	}
	logger.L.Info("Data loaded successfully",
		"holdings", len(ds.Holdings),
		"trades", len(ds.Trades),
		"funds", len(ds.FundNames()))

	logger.L.Info("Initializing answer cache...")
	answerCache := cache.New(config.Cfg.AnswerCacheTTL, config.Cfg.AnswerCacheCleanup)

	engine := chatbot.NewEngine(ds, answerCache)
	chatHandler := handlers.NewChatHandler(engine, ds)

	logger.L.Info("Configuring routes...")
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ask", chatHandler.HandleAsk)
	mux.HandleFunc("GET /api/health", chatHandler.HandleHealth)
	mux.HandleFunc("/", chatHandler.HandleHome)

	logger.L.Info("Applying global middleware...")
	limiter := rate.NewLimiter(rate.Every(config.Cfg.RateLimitInterval), config.Cfg.RateLimitBurst)
	finalHandler := handlers.EnableCORS(config.Cfg.AllowedOrigins)(
		handlers.RateLimitMiddleware(limiter)(
			handlers.RequestLogMiddleware(mux)))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
