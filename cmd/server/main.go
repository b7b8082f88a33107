package main

import (
	"FoodShare/cmd/config"
	migration "FoodShare/cmd/database/migrate"
	"FoodShare/internal/utils"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := config.NewApp(ctx, db)
	if err != nil {
		log.Fatalf("create app: %v", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
