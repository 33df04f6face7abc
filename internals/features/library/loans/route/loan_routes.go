// internals/features/library/loans/route/loan_routes.go
package route

import (
	loanController "biblioteca_backend/internals/features/library/loans/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Loan routes: lifecycle (create → renew/return → delete) plus the dashboard.
Mount example: LoanRoutes(app.Group("/api"), db)
*/
func LoanRoutes(r fiber.Router, db *gorm.DB) {
	loanCtl := loanController.NewLoanController(db)
	loans := r.Group("/prestamos")
	loans.Get("/", loanCtl.List)                // GET    /api/prestamos
	loans.Post("/", loanCtl.Create)             // POST   /api/prestamos
	loans.Post("/:id/renovar", loanCtl.Renew)   // POST   /api/prestamos/:id/renovar
	loans.Post("/:id/devolver", loanCtl.Return) // POST   /api/prestamos/:id/devolver
	loans.Delete("/:id", loanCtl.Delete)        // DELETE /api/prestamos/:id

	dashCtl := loanController.NewDashboardController(db)
	r.Get("/dashboard", dashCtl.Dashboard) // GET /api/dashboard
}
