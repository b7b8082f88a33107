package routes

import (
	"FoodShare/internal/api/handlers"
	"FoodShare/internal/middleware"
	"FoodShare/pkg/campus"
	"FoodShare/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	PinHandler    handlers.PinHandler
	CampusHandler handlers.CampusHandler
	StreamHandler handlers.StreamHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Campuses()
	c.Pins()
	c.Bookmarks()
	c.GuestRoute()
	c.Navigation()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/oauth", c.UserHandler.OAuthLogin)
		user.Post("/logout", c.UserHandler.Logout)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Put("/me/campus", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.SelectCampus)
		user.Get("/me/filters", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetFilters)
		user.Put("/me/filters", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.SaveFilters)
	}
}

func (c *Config) Campuses() {
	campuses := c.App.Group("/api/v1/campuses")
	campuses.Get("", c.CampusHandler.GetCampuses)
	campuses.Get("/:id", c.CampusHandler.GetCampus)
	campuses.Get("/:id/map.png", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.CampusHandler.RenderMap)
	campuses.Post("/:id/map/click", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.CampusHandler.MapClick)
	campuses.Post("/:id/map/snapshot", c.Middleware.AuthMiddleware(c.JWTService), c.CampusHandler.PublishSnapshot)
}

func (c *Config) Pins() {
	pins := c.App.Group("/api/v1/pins", c.Middleware.AuthMiddleware(c.JWTService))

	// static paths before /:id
	pins.Get("/stream", c.StreamHandler.StreamPins)
	pins.Get("/mine", c.PinHandler.GetMyPins)
	pins.Get("/view", c.PinHandler.GetPinView)

	pins.Get("", c.PinHandler.GetPins)
	pins.Post("", c.PinHandler.CreatePin)
	pins.Get("/:id", c.PinHandler.GetPin)
	pins.Patch("/:id", c.PinHandler.UpdatePin)
	pins.Delete("/:id", c.PinHandler.DeletePin)
	pins.Post("/:id/bookmark", c.PinHandler.ToggleBookmark)
}

func (c *Config) Bookmarks() {
	bookmarks := c.App.Group("/api/v1/bookmarks", c.Middleware.AuthMiddleware(c.JWTService))
	bookmarks.Get("", c.PinHandler.GetBookmarks)
	bookmarks.Get("/stream", c.StreamHandler.StreamBookmarks)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Navigation() {
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)
	c.App.Get(campus.PathLanding, optional, c.CampusHandler.Landing)
	c.App.Get(campus.PathCampusPicker, optional, c.CampusHandler.CampusPicker)
	c.App.Get(campus.PathMap, optional, c.CampusHandler.Workspace)
}
