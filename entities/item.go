package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Item struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Returnable  bool      `gorm:"not null;default:false" json:"returnable"`
	Quantity    int       `gorm:"not null" json:"quantity"` // units on hand, never negative

	Timestamp
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
