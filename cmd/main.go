package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trade-journal/config"
	"trade-journal/internal/database"
	"trade-journal/internal/handlers"
	"trade-journal/internal/llm"
	"trade-journal/internal/logger"
	"trade-journal/internal/payments"
	"trade-journal/internal/repositories"
	"trade-journal/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

func main() {
	// .env is optional; config falls back to defaults and real env vars.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	defer log.Sync()

	db, err := database.NewDatabase(&cfg)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	tradeRepo := repositories.NewTradeRepository(db)
	gamificationRepo := repositories.NewGamificationRepository(db)
	billingRepo := repositories.NewBillingRepository(db)

	// External clients
	llmClient := llm.NewClient(cfg.LLM, log)
	paymentsClient := payments.NewClient(cfg.Payments, log)

	// Services
	authService := services.NewAuthService(userRepo, log)
	accountService := services.NewAccountService(accountRepo)
	gamificationService := services.NewGamificationService(gamificationRepo, tradeRepo, log)
	tradeService := services.NewTradeService(tradeRepo, accountRepo, gamificationService, log)
	analyticsService := services.NewAnalyticsService(tradeRepo)
	reportService := services.NewReportService(analyticsService, llmClient, log)
	billingService := services.NewBillingService(billingRepo, paymentsClient, log)
	adminService := services.NewAdminService(userRepo, billingRepo, log)
	marketService := services.NewMarketDataService(cfg.MarketData, log)
	wsHub := services.NewWebSocketHub(log)

	// Start WebSocket hub in goroutine
	go wsHub.Run()

	// Start quote broadcaster
	go broadcastQuotes(wsHub, marketService, log)

	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	accountHandler := handlers.NewAccountHandler(accountService)
	tradeHandler := handlers.NewTradeHandler(tradeService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	gamificationHandler := handlers.NewGamificationHandler(gamificationService)
	reportHandler := handlers.NewReportHandler(reportService)
	billingHandler := handlers.NewBillingHandler(billingService, paymentsClient)
	adminHandler := handlers.NewAdminHandler(adminService)
	marketHandler := handlers.NewMarketHandler(marketService)

	authMiddleware := authHandler.AuthMiddleware()
	adminMiddleware := authHandler.AdminMiddleware()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "message": "Trade Journal API is running"})
	})

	// Auth routes
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.GET("/api/auth/me", authMiddleware, authHandler.GetCurrentUser)

	// Account routes
	router.POST("/api/accounts", authMiddleware, accountHandler.Create)
	router.GET("/api/accounts", authMiddleware, accountHandler.List)
	router.GET("/api/accounts/:id", authMiddleware, accountHandler.Get)
	router.PUT("/api/accounts/:id", authMiddleware, accountHandler.Update)
	router.POST("/api/accounts/:id/activate", authMiddleware, accountHandler.Activate)
	router.DELETE("/api/accounts/:id", authMiddleware, accountHandler.Delete)

	// Trade routes
	router.POST("/api/trades", authMiddleware, tradeHandler.Create)
	router.GET("/api/trades", authMiddleware, tradeHandler.List)
	router.GET("/api/trades/recent", authMiddleware, tradeHandler.Recent)
	router.GET("/api/trades/:id", authMiddleware, tradeHandler.Get)
	router.PUT("/api/trades/:id", authMiddleware, tradeHandler.Update)
	router.DELETE("/api/trades/:id", authMiddleware, tradeHandler.Delete)
	router.POST("/api/trades/import", authMiddleware, tradeHandler.Import)

	// Analytics routes
	router.GET("/api/analytics/metrics", authMiddleware, analyticsHandler.Metrics)

	// Gamification routes
	router.GET("/api/gamification/level", authMiddleware, gamificationHandler.GetLevel)
	router.GET("/api/gamification/achievements", authMiddleware, gamificationHandler.GetAchievements)
	router.POST("/api/gamification/daily-progress", authMiddleware, gamificationHandler.RecordDailyProgress)

	// Analysis and report routes
	router.POST("/api/analysis", authMiddleware, reportHandler.Analyze)
	router.GET("/api/reports/performance", authMiddleware, reportHandler.PerformanceReport)

	// Billing routes
	router.POST("/api/billing/subscribe", authMiddleware, billingHandler.Subscribe)
	router.GET("/api/billing/subscription", authMiddleware, billingHandler.GetSubscription)
	router.POST("/api/billing/webhook", billingHandler.Webhook)

	// Admin routes
	router.GET("/api/admin/users", authMiddleware, adminMiddleware, adminHandler.ListUsers)
	router.PUT("/api/admin/users/:id/active", authMiddleware, adminMiddleware, adminHandler.SetUserActive)
	router.GET("/api/admin/promo-codes", authMiddleware, adminMiddleware, adminHandler.ListPromoCodes)
	router.POST("/api/admin/promo-codes", authMiddleware, adminMiddleware, adminHandler.CreatePromoCode)
	router.DELETE("/api/admin/promo-codes/:id", authMiddleware, adminMiddleware, adminHandler.DeletePromoCode)

	// Market data routes
	router.GET("/api/market/quote/:symbol", marketHandler.GetQuote)
	router.GET("/api/market/news", marketHandler.GetNews)

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		username := c.Query("username")
		if username == "" {
			username = "Anonymous"
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("failed to upgrade connection", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to upgrade to WebSocket"})
			return
		}

		client := wsHub.RegisterClient(conn, username)
		go client.WritePump()
		go client.ReadPump()
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("trade journal backend listening", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

// broadcastQuotes pushes a mock random-walk quote per symbol to the hub every
// few seconds. The stream deliberately never touches the real provider: at one
// tick per symbol every 3 seconds it would burn through the API quota, which
// stays reserved for on-demand quote requests.
func broadcastQuotes(hub *services.WebSocketHub, marketService *services.MarketDataService, log *zap.Logger) {
	// Let the server finish initializing before the first broadcast.
	time.Sleep(2 * time.Second)
	log.Info("starting quote broadcaster")

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		for _, symbol := range marketService.Symbols() {
			hub.BroadcastQuote(*marketService.MockQuote(symbol))
		}
	}
}
