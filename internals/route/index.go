// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	catalogRoute "biblioteca_backend/internals/features/library/catalog/route"
	jobsRoute "biblioteca_backend/internals/features/library/jobs/route"
	loansRoute "biblioteca_backend/internals/features/library/loans/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== BASE =====================
	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	// ===================== API =====================
	log.Println("[INFO] Setting up API group...")
	api := app.Group("/api")

	log.Println("[INFO] Mounting Catalog routes...")
	catalogRoute.CatalogRoutes(api, db)

	log.Println("[INFO] Mounting Loan routes...")
	loansRoute.LoanRoutes(api, db)

	log.Println("[INFO] Mounting Jobs routes...")
	jobsRoute.JobsRoutes(api, db)
}
