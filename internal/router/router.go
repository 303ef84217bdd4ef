package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fast-connect/connect-go-api/internal/config"
	"github.com/fast-connect/connect-go-api/internal/handler"
	"github.com/fast-connect/connect-go-api/internal/middleware"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	SocialHandler       *handler.SocialHandler
	ConversationHandler *handler.ConversationHandler
	MessageHandler      *handler.MessageHandler
	DiscussionHandler   *handler.DiscussionHandler
	MaterialHandler     *handler.MaterialHandler
	QuizHandler         *handler.QuizHandler
	EventHandler        *handler.EventHandler
	FacultyHandler      *handler.FacultyHandler
	UploadHandler       *handler.UploadHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)

		me := api.Group("/auth", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(me)
	}

	if deps.SocialHandler != nil {
		social := api.Group("/social", jwtMiddleware)
		deps.SocialHandler.Register(social)
	}

	if deps.ConversationHandler != nil {
		conversations := api.Group("/conversations", jwtMiddleware)
		deps.ConversationHandler.Register(conversations)

		if deps.MessageHandler != nil {
			deps.MessageHandler.Register(conversations)
		}
	}

	if deps.DiscussionHandler != nil {
		discussions := api.Group("/discussions", jwtMiddleware)
		deps.DiscussionHandler.Register(discussions)
	}

	if deps.MaterialHandler != nil {
		materials := api.Group("/materials", jwtMiddleware)
		deps.MaterialHandler.Register(materials)
	}

	if deps.QuizHandler != nil {
		quizzes := api.Group("/quizzes", jwtMiddleware)
		deps.QuizHandler.Register(quizzes)
	}

	if deps.EventHandler != nil {
		events := api.Group("/events", jwtMiddleware)
		deps.EventHandler.Register(events)
	}

	if deps.FacultyHandler != nil {
		faculty := api.Group("/faculty", jwtMiddleware)
		deps.FacultyHandler.Register(faculty)

		admin := api.Group("/faculty", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.FacultyHandler.RegisterAdmin(admin)
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", jwtMiddleware, middleware.RateLimit("uploads", 30, time.Minute))
		deps.UploadHandler.Register(uploads)
	}
}
