package client

import (
	"context"
	"net"
	"testing"
	"time"

	"FoodShare/internal/api/handlers"
	"FoodShare/internal/api/routes"
	"FoodShare/internal/middleware"
	"FoodShare/internal/testutil"
	"FoodShare/internal/utils"
	"FoodShare/pkg/jwt"
	"FoodShare/pkg/pin"
	"FoodShare/pkg/realtime"
	"FoodShare/pkg/user"
	"FoodShare/pkg/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	URL string
	Hub *realtime.Hub
}

// newTestServer runs the full API over a real listener backed by sqlite.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	db := testutil.NewDB(t)
	jwtService := jwt.NewJWTServiceWithSecret("client-test-secret")
	verifier, err := jwt.NewGoogleVerifier("", "", "")
	require.NoError(t, err)

	broker := realtime.NewMemoryBroker()
	userService := user.NewUserService(user.NewUserRepository(db), jwtService, verifier)
	pinService := pin.NewPinService(pin.NewPinRepository(db), broker, nil)
	workspaceService := workspace.NewWorkspaceService(pinService, userService, nil, time.UTC)
	hub := realtime.NewHub(broker, pinService)
	go func() { _ = hub.Run(ctx) }()

	validator := utils.NewValidator()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	cfg := routes.Config{
		App:           app,
		UserHandler:   handlers.NewUserHandler(userService, validator),
		PinHandler:    handlers.NewPinHandler(pinService, workspaceService, validator),
		CampusHandler: handlers.NewCampusHandler(workspaceService, validator),
		StreamHandler: handlers.NewStreamHandler(ctx, hub),
		Middleware:    middleware.NewMiddleware(),
		JWTService:    jwtService,
	}
	cfg.Setup()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()

	t.Cleanup(func() {
		cancel()
		_ = app.ShutdownWithTimeout(2 * time.Second)
		_ = broker.Close()
	})
	return &testServer{URL: "http://" + ln.Addr().String(), Hub: hub}
}
