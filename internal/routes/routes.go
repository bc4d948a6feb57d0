package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gymstack/gymstack-backend/internal/config"
	"github.com/gymstack/gymstack-backend/internal/handlers"
	"github.com/gymstack/gymstack-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	sessionHandler *handlers.SessionHandler,
	userHandler *handlers.UserHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Session exchange is public and rate-limited harder: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/session", sessionHandler.Create)

	// Everything else requires a session and a resolved actor.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.ActorLoader(db))

	protected.Get("/me", sessionHandler.Me)

	protected.Get("/notifications", notificationHandler.List)
	protected.Put("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.Put("/notifications/:id/read", notificationHandler.MarkRead)

	// Directory mutations are staff-only at the route level; the service
	// gate re-checks per target role.
	staff := protected.Group("/users", middleware.StaffRequired())
	staff.Get("", userHandler.List)
	staff.Post("", userHandler.Create)
	staff.Put("/:id", userHandler.Update)
	staff.Patch("/:id/status", userHandler.SetStatus)
	staff.Delete("/:id", userHandler.Delete)
	staff.Post("/:id/resend-invite", userHandler.ResendInvite)
}
