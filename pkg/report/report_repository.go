package report

import (
	"context"
	"time"

	"inventory-provision-api/domain"
	"inventory-provision-api/entities"

	"gorm.io/gorm"
)

type (
	ReportRepository interface {
		AggregateApproved(ctx context.Context, from, to time.Time) ([]domain.ReportRow, error)
	}

	reportRepository struct {
		db *gorm.DB
	}
)

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// AggregateApproved sums approved provision quantity per item for
// approvals inside the window.
func (r *reportRepository) AggregateApproved(ctx context.Context, from, to time.Time) ([]domain.ReportRow, error) {
	var rows []domain.ReportRow
	if err := r.db.WithContext(ctx).
		Model(&entities.Provision{}).
		Select("items.name AS name, items.description AS description, items.returnable AS returnable, SUM(provisions.quantity) AS quantity").
		Joins("JOIN items ON items.id = provisions.item_id").
		Where("provisions.approved = ? AND provisions.approved_on >= ? AND provisions.approved_on < ?", true, from, to).
		Group("items.id, items.name, items.description, items.returnable").
		Order("items.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
