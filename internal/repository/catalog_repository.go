package repository

import (
	"context"

	"neowatch/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository reads the NEO catalog tables. The tables are maintained
// outside this program; nothing here writes to them.
type CatalogRepository interface {
	ListNEOs(ctx context.Context) ([]*models.NearEarthObject, error)
	ListApproaches(ctx context.Context) ([]*models.CloseApproach, error)
	Count(ctx context.Context) (neos int64, approaches int64, err error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListNEOs(ctx context.Context) ([]*models.NearEarthObject, error) {
	var records []models.NEORecord
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&records).
		Error
	if err != nil {
		return nil, err
	}

	neos := make([]*models.NearEarthObject, 0, len(records))
	for _, rec := range records {
		neos = append(neos, rec.ToModel())
	}
	return neos, nil
}

// ListApproaches keeps primary-key order, which is the dataset order
func (r *catalogRepository) ListApproaches(ctx context.Context) ([]*models.CloseApproach, error) {
	var records []models.ApproachRecord
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&records).
		Error
	if err != nil {
		return nil, err
	}

	approaches := make([]*models.CloseApproach, 0, len(records))
	for _, rec := range records {
		approaches = append(approaches, rec.ToModel())
	}
	return approaches, nil
}

func (r *catalogRepository) Count(ctx context.Context) (int64, int64, error) {
	var neos, approaches int64

	if err := r.db.WithContext(ctx).Model(&models.NEORecord{}).Count(&neos).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.ApproachRecord{}).Count(&approaches).Error; err != nil {
		return 0, 0, err
	}

	return neos, approaches, nil
}
