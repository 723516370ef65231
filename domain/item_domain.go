package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddItem   = "item added to inventory"
	MessageSuccessEditItem  = "item updated successfully"
	MessageSuccessGetItems  = "items retrieved successfully"
	MessageFailedAddItem    = "failed to add item"
	MessageFailedEditItem   = "failed to update item"
	MessageFailedGetItems   = "failed to retrieve items"
	MessageFailedSearchItem = "failed to search items"

	ErrItemNotFound      = errors.New("item not found")
	ErrDuplicateItemName = errors.New("an item with this name already exists")
	ErrInvalidQuantity   = errors.New("please enter a valid quantity")
)

type (
	AddItemRequest struct {
		Name        string `json:"name" validate:"required,max=50"`
		Description string `json:"description" validate:"omitempty"`
		Returnable  bool   `json:"returnable"`
		Quantity    int    `json:"quantity" validate:"required,min=1"`
	}

	// Name is immutable after creation, so the edit form only carries
	// description and quantity.
	EditItemRequest struct {
		Description string `json:"description" validate:"omitempty"`
		Quantity    int    `json:"quantity" validate:"required,min=1"`
	}

	ItemResponse struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description,omitempty"`
		Returnable  bool      `json:"returnable"`
		Quantity    int       `json:"quantity"`
		CreatedAt   time.Time `json:"created_at"`
	}
)
