package failedfetch

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

type IStore interface {
	Create(db *gorm.DB, failedFetch *model.FailedFetch) (*model.FailedFetch, error)
	ListByRunID(db *gorm.DB, runID uint) ([]model.FailedFetch, error)
}
