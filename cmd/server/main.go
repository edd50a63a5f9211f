package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sajidk/furniture-store/auth"
	"github.com/sajidk/furniture-store/internal/cache"
	"github.com/sajidk/furniture-store/internal/config"
	"github.com/sajidk/furniture-store/internal/db"
	"github.com/sajidk/furniture-store/internal/events"
	"github.com/sajidk/furniture-store/internal/handlers"
	"github.com/sajidk/furniture-store/internal/images"
	"github.com/sajidk/furniture-store/internal/models"
	"github.com/sajidk/furniture-store/internal/server"
	"github.com/sajidk/furniture-store/internal/services"
	"github.com/sajidk/furniture-store/internal/store"

	"github.com/joho/godotenv"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	dbConn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if *migrateOnlyFlag {
		log.Println("Migrations completed")
		return
	}

	// Token bearers must still exist in the users table.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		dbConn.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&count)
		return count > 0
	})

	imgs, err := images.New(cfg.ImagesDir)
	if err != nil {
		log.Fatalf("Failed to prepare images dir: %v", err)
	}
	rdb := cache.New(cfg.RedisAddr, cfg.RedisPassword)

	catalog := store.NewCatalogStore(dbConn)
	orders := store.NewOrderStore(dbConn)
	reviews := store.NewReviewStore(dbConn)
	orderSvc := services.NewOrderService(orders)

	srvHandler := &server.Server{
		Products: handlers.NewProductHandler(catalog, rdb, imgs),
		Orders:   handlers.NewOrderHandler(orderSvc, orders),
		Reviews:  handlers.NewReviewHandler(reviews),
		Contact:  handlers.NewContactHandler(dbConn),
		Auth:     handlers.NewAuthHandler(dbConn),
		Images:   imgs,
		Redis:    rdb,
	}

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	startRelay(relayCtx, cfg, orders)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srvHandler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (env=%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	stopRelay()
	log.Println("Server stopped gracefully")
}

// startRelay launches the outbox relay when brokers are configured. Orders
// still commit without Kafka; their events simply wait in the outbox.
func startRelay(ctx context.Context, cfg config.Config, orders *store.OrderStore) {
	if len(cfg.KafkaBrokers) == 0 {
		return
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Printf("Kafka unavailable, outbox relay disabled: %v", err)
		return
	}
	relay := &events.Relay{Source: orders, Producer: producer}
	go relay.Run(ctx)
}
