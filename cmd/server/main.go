package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/crediflow/backend/docs"
	"github.com/crediflow/backend/internal/audit"
	"github.com/crediflow/backend/internal/config"
	"github.com/crediflow/backend/internal/database"
	"github.com/crediflow/backend/internal/handlers"
	mW "github.com/crediflow/backend/internal/middleware"
)

// @title Crediflow Installment Credit API
// @version 1.0
// @description Multi-tenant installment credit ledger
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	serverConfig := config.LoadServerConfig()

	docs.SwaggerInfo.Title = "Crediflow Installment Credit API"
	docs.SwaggerInfo.Description = "Multi-tenant installment credit ledger"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + serverConfig.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	db := database.MustConnect()
	defer db.Close()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	deps := &handlers.Deps{
		Router: database.NewTenantStoreRouter(db),
		Redis:  redisClient,
		Audit:  audit.NewLogger(),
	}

	purchaseHandler := handlers.NewCreditPurchaseHandler(deps)
	installmentHandler := handlers.NewInstallmentHandler(deps)
	dashboardHandler := handlers.NewDashboardHandler(deps)
	modalityHandler := handlers.NewPaymentModalityHandler(deps)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(serverConfig.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   serverConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:"+serverConfig.Port+"/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			r.Post("/purchases", purchaseHandler.Create)
			r.Get("/purchases", purchaseHandler.List)
			r.Get("/purchases/{purchaseId}", purchaseHandler.Get)
			r.Patch("/purchases/{purchaseId}/cancel", purchaseHandler.Cancel)
			r.Delete("/purchases/{purchaseId}", purchaseHandler.Delete)

			r.Patch("/installments/{installmentId}/pay", installmentHandler.Pay)
			r.Patch("/installments/{installmentId}/unpay", installmentHandler.Unpay)
			r.Post("/installments/refresh-overdue", installmentHandler.RefreshOverdue)

			r.Get("/dashboard/installments-by-date", dashboardHandler.ByDueDate)
			r.Get("/dashboard/totals", dashboardHandler.Totals)
			r.Get("/dashboard/overdue", dashboardHandler.Overdue)
			r.Get("/dashboard/due-soon", dashboardHandler.DueSoon)
			r.Get("/dashboard/daily-summary", dashboardHandler.DailySummary)

			r.Get("/modalities", modalityHandler.List)
		})
	})

	server := &http.Server{
		Addr:         ":" + serverConfig.Port,
		Handler:      r,
		ReadTimeout:  serverConfig.ReadTimeout,
		WriteTimeout: serverConfig.WriteTimeout,
		IdleTimeout:  serverConfig.IdleTimeout,
	}

	go func() {
		log.Printf("Server starting on :%s", serverConfig.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.RequestTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
