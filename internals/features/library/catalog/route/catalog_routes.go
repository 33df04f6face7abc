// internals/features/library/catalog/route/catalog_routes.go
package route

import (
	catalogController "biblioteca_backend/internals/features/library/catalog/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Catalog routes: titles, categories and physical copies.
Mount example: CatalogRoutes(app.Group("/api"), db)
*/
func CatalogRoutes(r fiber.Router, db *gorm.DB) {
	titleCtl := catalogController.NewTitleController(db)
	exportCtl := catalogController.NewExportController(db)
	titles := r.Group("/libros")
	titles.Get("/", titleCtl.List)            // GET    /api/libros?q=&cat=&page=
	titles.Get("/exportar", exportCtl.Export) // GET    /api/libros/exportar?format=xlsx|csv
	titles.Get("/:id", titleCtl.GetByID)      // GET    /api/libros/:id
	titles.Post("/", titleCtl.Create)         // POST   /api/libros
	titles.Put("/:id", titleCtl.Update)       // PUT    /api/libros/:id
	titles.Delete("/:id", titleCtl.Delete)    // DELETE /api/libros/:id

	catCtl := catalogController.NewCategoryController(db)
	cats := r.Group("/categorias")
	cats.Get("/", catCtl.List)         // GET    /api/categorias
	cats.Post("/", catCtl.Create)      // POST   /api/categorias
	cats.Delete("/:id", catCtl.Delete) // DELETE /api/categorias/:id

	ejCtl := catalogController.NewExemplarController(db)
	ejs := r.Group("/ejemplares")
	ejs.Get("/disponibles", ejCtl.ListAvailable) // GET    /api/ejemplares/disponibles
	ejs.Post("/", ejCtl.Create)                  // POST   /api/ejemplares
	ejs.Delete("/:id", ejCtl.Delete)             // DELETE /api/ejemplares/:id
}
