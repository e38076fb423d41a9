package store

import (
	"gorm.io/gorm"
)

// DoInTx runs fn inside one database transaction, rolling back on error. Run
// records and their failed fetches are written through this so a run is
// either fully persisted or not at all.
func DoInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	err := fn(tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
