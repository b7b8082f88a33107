package config

import (
	"FoodShare/internal/api/handlers"
	"FoodShare/internal/api/routes"
	"FoodShare/internal/middleware"
	"FoodShare/internal/utils"
	"FoodShare/internal/utils/mailing"
	"FoodShare/internal/utils/storage"
	"FoodShare/pkg/campus"
	"FoodShare/pkg/jwt"
	"FoodShare/pkg/pin"
	"FoodShare/pkg/realtime"
	"FoodShare/pkg/user"
	"FoodShare/pkg/workspace"
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// NewApp wires every layer onto a fiber app. Background work (the realtime
// hub and open SSE streams) stops when ctx is cancelled.
func NewApp(ctx context.Context, db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	timezone := utils.GetConfig("APP_TIMEZONE")
	fallback, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warnf("unknown APP_TIMEZONE %q, using UTC: %v", timezone, err)
		fallback = time.UTC
	}

	// setting up logging and limiter
	err = os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   fallback.String(),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
		Next: func(c *fiber.Ctx) bool {
			// long-lived event streams are not counted
			return c.Get(fiber.HeaderAccept) == "text/event-stream"
		},
	}))

	// utils
	s3 := storage.NewAwsS3()
	broker, err := newBroker(ctx)
	if err != nil {
		return nil, err
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	pinRepository := pin.NewPinRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	oauthVerifier, err := jwt.NewOAuthVerifier()
	if err != nil {
		return nil, err
	}
	userService := user.NewUserService(userRepository, jwtService, oauthVerifier)
	notifier := mailing.NewPinNotifier(mailing.LoadMailConfig(), userService.GetEmails)
	pinService := pin.NewPinService(pinRepository, broker, notifier)
	workspaceService := workspace.NewWorkspaceService(pinService, userService, s3, fallback)

	hub := realtime.NewHub(broker, pinService)
	go func() {
		if err := hub.Run(ctx); err != nil {
			log.Errorf("realtime hub stopped: %v", err)
		}
		if err := broker.Close(); err != nil {
			log.Warnf("close broker: %v", err)
		}
	}()

	if utils.GetConfig("SEED_SAMPLE") == "true" {
		seedSample(ctx, pinService)
	}

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	pinHandler := handlers.NewPinHandler(pinService, workspaceService, validator)
	campusHandler := handlers.NewCampusHandler(workspaceService, validator)
	streamHandler := handlers.NewStreamHandler(ctx, hub)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		PinHandler:    pinHandler,
		CampusHandler: campusHandler,
		StreamHandler: streamHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

// newBroker uses Redis when REDIS_ADDR is set so several instances share
// change notifications, and an in-process broker otherwise.
func newBroker(ctx context.Context) (realtime.Broker, error) {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		log.Info("realtime: using in-memory broker")
		return realtime.NewMemoryBroker(), nil
	}
	db, _ := strconv.Atoi(utils.GetConfig("REDIS_DB"))
	broker, err := realtime.NewRedisBroker(ctx, realtime.RedisConfig{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       db,
		Channel:  utils.GetConfig("REDIS_CHANNEL"),
	})
	if err != nil {
		return nil, err
	}
	log.Infof("realtime: using redis broker at %s", addr)
	return broker, nil
}

func seedSample(ctx context.Context, pinService pin.PinService) {
	all := campus.All()
	if len(all) == 0 {
		return
	}
	seeded, err := pinService.SeedIfEmpty(ctx, all[0])
	if err != nil {
		log.Errorf("seed sample pin: %v", err)
		return
	}
	if seeded {
		log.Infof("seeded sample pin on campus %s", all[0].ID)
	}
}
