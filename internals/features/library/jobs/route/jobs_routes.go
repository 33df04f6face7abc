// internals/features/library/jobs/route/jobs_routes.go
package route

import (
	jobsController "biblioteca_backend/internals/features/library/jobs/controller"
	middlewares "biblioteca_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Maintenance jobs, meant for operators: CSV import and the legacy-loan
backfill. Both accept ?dry_run=true.
*/
func JobsRoutes(r fiber.Router, db *gorm.DB) {
	ctl := jobsController.NewJobsController(db)
	jobs := r.Group("/jobs", middlewares.JobsRateLimiter())
	jobs.Post("/importar", ctl.Import)   // POST /api/jobs/importar
	jobs.Post("/backfill", ctl.Backfill) // POST /api/jobs/backfill?dry_run=true
}
