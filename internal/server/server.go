package server

import (
	"log"
	"strings"

	"rently-backend/internal/auth"
	"rently-backend/internal/config"
	"rently-backend/internal/models"
	"rently-backend/internal/properties"
	"rently-backend/internal/requests"
	"rently-backend/internal/respond"
	"rently-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// New builds the fiber app with every route registered. Separate from main
// so handler tests can drive the app through app.Test.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return respond.Error(c, e.Code, e.Message)
			}
			log.Println("Unexpected error:", err)
			return respond.Error(c, fiber.StatusInternalServerError, "Unexpected server error")
		},
	})

	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Static(cfg.ImageBaseURL, cfg.ImagePath)

	// Public
	app.Post("/auth/login", auth.LoginHandler(cfg))
	app.Post("/auth/register", auth.RegisterHandler(cfg))
	app.Get("/properties", properties.ListPropertiesHandler())
	app.Get("/properties/:id", properties.GetPropertyHandler())
	app.Get("/landlords", users.ListLandlordsHandler())
	app.Post("/requests", requests.CreateRequestHandler())

	// Authenticated
	protected := app.Group("")
	protected.Use(auth.Middleware(cfg))

	protected.Post("/auth/password", auth.ChangePasswordHandler())

	// Property management
	propertyWrite := protected.Group("")
	propertyWrite.Use(auth.RequireType(models.UserTypeLandlord, models.UserTypeAdmin))
	propertyWrite.Post("/properties", properties.CreatePropertyHandler())
	propertyWrite.Put("/properties/:id", properties.UpdatePropertyHandler())
	propertyWrite.Delete("/properties/:id", properties.DeletePropertyHandler())
	propertyWrite.Post("/properties/:id/images", properties.UploadImagesHandler(cfg))

	// User management
	protected.Get("/users", auth.RequireType(models.UserTypeAdmin), users.ListUsersHandler())
	protected.Get("/users/:id", users.GetUserHandler())
	protected.Put("/users/:id", users.UpdateUserHandler())
	protected.Delete("/users/:id", auth.RequireType(models.UserTypeAdmin), users.DeleteUserHandler())

	// Contact requests
	protected.Get("/requests/landlord/:landlordId/unread-count", requests.UnreadCountHandler())
	protected.Get("/requests/landlord/:landlordId", requests.ListLandlordRequestsHandler())
	protected.Patch("/requests/:id/read", requests.MarkReadHandler())

	return app
}
