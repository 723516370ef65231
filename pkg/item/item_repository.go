package item

import (
	"context"

	"inventory-provision-api/entities"

	"gorm.io/gorm"
)

type (
	ItemRepository interface {
		CreateItem(ctx context.Context, item *entities.Item) error
		GetItemByID(ctx context.Context, id string) (*entities.Item, error)
		GetItemByName(ctx context.Context, name string) (*entities.Item, error)
		UpdateItem(ctx context.Context, item *entities.Item) error
		ListItems(ctx context.Context) ([]*entities.Item, error)
		SearchItems(ctx context.Context, prefix string) ([]*entities.Item, error)
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) CreateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetItemByName(ctx context.Context, name string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) ListItems(ctx context.Context) ([]*entities.Item, error) {
	var items []*entities.Item
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchItems powers the item autocomplete on provision forms; items with
// nothing on hand are excluded.
func (r *itemRepository) SearchItems(ctx context.Context, prefix string) ([]*entities.Item, error) {
	var items []*entities.Item
	if err := r.db.WithContext(ctx).
		Where("quantity > 0 AND name LIKE ?", prefix+"%").
		Order("name ASC").
		Limit(10).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
