package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizzaShop/config"
	"pizzaShop/database"
	"pizzaShop/handlers"
	"pizzaShop/repository"
	"pizzaShop/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on environment variables")
	}
	cfg, err := config.Parse()
	if err != nil {
		log.WithError(err).Fatal("failed to parse config")
	}

	db, err := database.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	if err = database.InitSchema(db); err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	log.Info("database initialized")

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisHost + ":" + cfg.RedisPort,
	})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if status := rdb.Ping(pingCtx); status.Err() != nil {
		log.WithError(status.Err()).Fatal("redis is not working")
	}
	log.Info("redis connected")

	mR, err := repository.NewMenuRepository(db)
	if err != nil {
		log.WithError(err).Fatal("failed to create menu repository")
	}
	oR, err := repository.NewOrderRepository(db)
	if err != nil {
		log.WithError(err).Fatal("failed to create order repository")
	}
	sessionTTL := time.Duration(cfg.CartTTLHours) * time.Hour
	sR, err := repository.NewSessionRepository(rdb, context.Background(), sessionTTL)
	if err != nil {
		log.WithError(err).Fatal("failed to create session repository")
	}

	hp := handlers.HandlerParams{
		MenuService: services.NewMenuService(mR),
		CartService: services.NewCartService(sR),
		OrdService:  services.NewOrderService(oR),
		AuthService: services.NewAuthService(sR, cfg.ManagerPasswordHash, sessionTTL),
	}
	ha := handlers.NewHandler(hp)

	log.WithField("address", cfg.ServeRESTAddress).Info("starting server")
	srv := &http.Server{Addr: cfg.ServeRESTAddress, Handler: ha.Router()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	waitForKillSignal(getKillSignalChan())
	srv.Shutdown(context.Background())
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func waitForKillSignal(killSignalChan <-chan os.Signal) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		log.Info("got SIGINT...")
	case syscall.SIGTERM:
		log.Info("got SIGTERM...")
	}
}
