package aggregationrun

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

type IStore interface {
	Create(db *gorm.DB, run *model.AggregationRun) (*model.AggregationRun, error)
	Update(db *gorm.DB, run *model.AggregationRun) (*model.AggregationRun, error)
	GetLatest(db *gorm.DB) (*model.AggregationRun, error)
	List(db *gorm.DB, limit int) ([]model.AggregationRun, error)
}
