package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-provision-api/domain"
	"inventory-provision-api/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// IssueLine is one row of an admin direct-issue submission.
	IssueLine struct {
		ItemID   uuid.UUID
		UserID   uuid.UUID
		Quantity int
		ReturnBy *time.Time
	}

	ProvisionRepository interface {
		CreateProvision(ctx context.Context, provision *entities.Provision) error
		GetProvisionByID(ctx context.Context, id string) (*entities.Provision, error)
		GetPendingProvision(ctx context.Context, id string) (*entities.Provision, error)
		Approve(ctx context.Context, provisionID string, quantity int, returnBy *time.Time, now time.Time) (*entities.Provision, error)
		Issue(ctx context.Context, lines []IssueLine, now time.Time) ([]*entities.Provision, error)
		Return(ctx context.Context, provisionID string, now time.Time) (*entities.Provision, error)
		ListPending(ctx context.Context, userID string, offset, limit int) ([]*entities.Provision, error)
		ListApproved(ctx context.Context, userID string, offset, limit int) ([]*entities.Provision, error)
		CountPending(ctx context.Context, userID string) (int64, error)
		CountApproved(ctx context.Context, userID string) (int64, error)
		ListOverdue(ctx context.Context, now time.Time) ([]*entities.Provision, error)
	}

	provisionRepository struct {
		db *gorm.DB
	}
)

func NewProvisionRepository(db *gorm.DB) ProvisionRepository {
	return &provisionRepository{db: db}
}

// sqlite (tests) has no FOR UPDATE; writes there are serialized anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *provisionRepository) CreateProvision(ctx context.Context, provision *entities.Provision) error {
	return r.db.WithContext(ctx).Create(provision).Error
}

func (r *provisionRepository) GetProvisionByID(ctx context.Context, id string) (*entities.Provision, error) {
	var p entities.Provision
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("User").
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *provisionRepository) GetPendingProvision(ctx context.Context, id string) (*entities.Provision, error) {
	var p entities.Provision
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("User").
		Where("id = ? AND approved = ?", id, false).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Approve moves a pending provision to approved and takes the stock out of
// the item row, all inside one transaction so a racing approval cannot
// drive the quantity negative.
func (r *provisionRepository) Approve(ctx context.Context, provisionID string, quantity int, returnBy *time.Time, now time.Time) (*entities.Provision, error) {
	var p entities.Provision
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&p, "id = ? AND approved = ?", provisionID, false).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProvisionNotFound
			}
			return err
		}

		var it entities.Item
		if err := lockForUpdate(tx).First(&it, "id = ?", p.ItemID).Error; err != nil {
			return err
		}

		if quantity > it.Quantity {
			return fmt.Errorf("only %d items available: %w", it.Quantity, domain.ErrInsufficientQuantity)
		}
		if !it.Returnable {
			returnBy = nil
		}

		if err := tx.Model(&entities.Item{}).
			Where("id = ?", it.ID).
			Update("quantity", gorm.Expr("quantity - ?", quantity)).Error; err != nil {
			return err
		}

		// Updates with a column map so the creation timestamp is never
		// restamped.
		if err := tx.Model(&entities.Provision{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"approved":    true,
				"approved_on": now,
				"quantity":    quantity,
				"return_by":   returnBy,
			}).Error; err != nil {
			return err
		}

		p.Approved = true
		p.ApprovedOn = &now
		p.Quantity = quantity
		p.ReturnBy = returnBy
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Issue creates already-approved provisions for a batch of lines. The
// requested quantities are summed per item across the whole batch first;
// if any item cannot cover its sum the entire batch is rejected and no
// row is written.
func (r *provisionRepository) Issue(ctx context.Context, lines []IssueLine, now time.Time) ([]*entities.Provision, error) {
	var created []*entities.Provision
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sums := make(map[uuid.UUID]int)
		var order []uuid.UUID
		for _, ln := range lines {
			if _, seen := sums[ln.ItemID]; !seen {
				order = append(order, ln.ItemID)
			}
			sums[ln.ItemID] += ln.Quantity
		}

		items := make(map[uuid.UUID]*entities.Item, len(order))
		var shortages []error
		for _, id := range order {
			var it entities.Item
			if err := lockForUpdate(tx).First(&it, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrItemNotFound
				}
				return err
			}
			items[id] = &it
			if sums[id] > it.Quantity {
				shortages = append(shortages, fmt.Errorf("%s: only %d items available: %w", it.Name, it.Quantity, domain.ErrInsufficientQuantity))
			}
		}
		if len(shortages) > 0 {
			return errors.Join(shortages...)
		}

		for _, id := range order {
			if err := tx.Model(&entities.Item{}).
				Where("id = ?", id).
				Update("quantity", gorm.Expr("quantity - ?", sums[id])).Error; err != nil {
				return err
			}
		}

		for _, ln := range lines {
			returnBy := ln.ReturnBy
			if !items[ln.ItemID].Returnable {
				returnBy = nil
			}
			approvedOn := now
			p := &entities.Provision{
				ItemID:     ln.ItemID,
				UserID:     ln.UserID,
				Timestamp:  now,
				Approved:   true,
				ApprovedOn: &approvedOn,
				ReturnBy:   returnBy,
				Quantity:   ln.Quantity,
			}
			if err := tx.Create(p).Error; err != nil {
				return err
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Return puts the provision's stored quantity back on the item row and
// stamps the provision returned, atomically.
func (r *provisionRepository) Return(ctx context.Context, provisionID string, now time.Time) (*entities.Provision, error) {
	var p entities.Provision
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&p, "id = ? AND approved = ? AND returned = ?", provisionID, true, false).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProvisionNotFound
			}
			return err
		}

		if err := tx.Model(&entities.Item{}).
			Where("id = ?", p.ItemID).
			Update("quantity", gorm.Expr("quantity + ?", p.Quantity)).Error; err != nil {
			return err
		}

		if err := tx.Model(&entities.Provision{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"returned":    true,
				"returned_on": now,
			}).Error; err != nil {
			return err
		}

		p.Returned = true
		p.ReturnedOn = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *provisionRepository) pendingQuery(ctx context.Context, userID string) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&entities.Provision{}).
		Where("approved = ?", false)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	return q
}

func (r *provisionRepository) approvedQuery(ctx context.Context, userID string) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&entities.Provision{}).
		Where("approved = ? AND returned = ?", true, false)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	return q
}

// Pending requests are processed oldest first.
func (r *provisionRepository) ListPending(ctx context.Context, userID string, offset, limit int) ([]*entities.Provision, error) {
	var provisions []*entities.Provision
	if err := r.pendingQuery(ctx, userID).
		Preload("Item").
		Preload("User").
		Order("timestamp ASC").
		Offset(offset).
		Limit(limit).
		Find(&provisions).Error; err != nil {
		return nil, err
	}
	return provisions, nil
}

func (r *provisionRepository) ListApproved(ctx context.Context, userID string, offset, limit int) ([]*entities.Provision, error) {
	var provisions []*entities.Provision
	if err := r.approvedQuery(ctx, userID).
		Preload("Item").
		Preload("User").
		Order("timestamp DESC").
		Offset(offset).
		Limit(limit).
		Find(&provisions).Error; err != nil {
		return nil, err
	}
	return provisions, nil
}

func (r *provisionRepository) CountPending(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pendingQuery(ctx, userID).Count(&count).Error
	return count, err
}

func (r *provisionRepository) CountApproved(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.approvedQuery(ctx, userID).Count(&count).Error
	return count, err
}

func (r *provisionRepository) ListOverdue(ctx context.Context, now time.Time) ([]*entities.Provision, error) {
	var provisions []*entities.Provision
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("User").
		Where("approved = ? AND returned = ? AND return_by IS NOT NULL AND return_by < ?", true, false, now).
		Order("return_by ASC").
		Find(&provisions).Error; err != nil {
		return nil, err
	}
	return provisions, nil
}
