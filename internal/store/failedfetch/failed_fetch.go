package failedfetch

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) Create(db *gorm.DB, failedFetch *model.FailedFetch) (*model.FailedFetch, error) {
	return failedFetch, db.Create(failedFetch).Error
}

func (s *store) ListByRunID(db *gorm.DB, runID uint) ([]model.FailedFetch, error) {
	var failedFetches []model.FailedFetch
	err := db.Where("run_id = ?", runID).Order("id asc").Find(&failedFetches).Error
	if err != nil {
		return nil, err
	}
	return failedFetches, nil
}
