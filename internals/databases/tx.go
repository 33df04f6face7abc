package database

import (
	"gorm.io/gorm"
)

// RunTx wraps fn in one transaction. With dryRun the body runs in full and the
// transaction is then rolled back unconditionally, so batch jobs can report
// the exact counters a real run would have produced without persisting a row.
func RunTx(db *gorm.DB, dryRun bool, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if dryRun {
		return tx.Rollback().Error
	}
	return tx.Commit().Error
}
