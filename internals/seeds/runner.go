package seeds

import (
	"gorm.io/gorm"

	library "biblioteca_backend/internals/seeds/library"
)

func RunAllSeeds(db *gorm.DB, nLoans int) error {
	return library.SeedDemo(db, nLoans)
}
