package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMiddleware "biblioteca_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the base middleware chain, order matters:
// recovery first so panics in the rest are caught.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(loggerMiddleware.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
