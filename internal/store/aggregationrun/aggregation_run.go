package aggregationrun

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) Create(db *gorm.DB, run *model.AggregationRun) (*model.AggregationRun, error) {
	return run, db.Create(run).Error
}

func (s *store) Update(db *gorm.DB, run *model.AggregationRun) (*model.AggregationRun, error) {
	return run, db.Save(run).Error
}

func (s *store) GetLatest(db *gorm.DB) (*model.AggregationRun, error) {
	var run model.AggregationRun
	err := db.Preload("FailedFetches").Order("created_at desc").First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *store) List(db *gorm.DB, limit int) ([]model.AggregationRun, error) {
	var runs []model.AggregationRun
	err := db.Preload("FailedFetches").Order("created_at desc").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
