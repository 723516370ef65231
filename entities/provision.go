package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provision is a loan record linking one Item to one User. Rows are
// append-mostly: they move through requested -> approved -> returned and
// are never deleted by the workflow.
type Provision struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ItemID uuid.UUID `gorm:"index;not null" json:"item_id"`
	UserID uuid.UUID `gorm:"index;not null" json:"user_id"`

	// Timestamp is stamped once at creation and drives queue ordering.
	Timestamp     time.Time  `gorm:"index;not null" json:"timestamp"`
	Approved      bool       `gorm:"not null;default:false" json:"approved"`
	ApprovedOn    *time.Time `json:"approved_on,omitempty"`
	ReturnBy      *time.Time `json:"return_by,omitempty"`
	Quantity      int        `json:"quantity"`
	Returned      bool       `gorm:"not null;default:false" json:"returned"`
	ReturnedOn    *time.Time `json:"returned_on,omitempty"`
	RequestByUser bool       `gorm:"not null;default:false" json:"request_by_user"`

	Item *Item `gorm:"foreignKey:ItemID"`
	User *User `gorm:"foreignKey:UserID"`
}

func (p *Provision) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
