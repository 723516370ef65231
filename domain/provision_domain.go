package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRequestItem   = "your request has been submitted"
	MessageSuccessApproveItem   = "item provisioned successfully"
	MessageSuccessIssueItems    = "items provisioned successfully"
	MessageSuccessReturnItem    = "item marked as returned"
	MessageSuccessGetProvisions = "provisions retrieved successfully"
	MessageSuccessGetDashboard  = "dashboard retrieved successfully"

	MessageFailedRequestItem   = "failed to submit request"
	MessageFailedApproveItem   = "failed to provision item"
	MessageFailedIssueItems    = "failed to provision items"
	MessageFailedReturnItem    = "failed to mark item as returned"
	MessageFailedGetProvisions = "failed to retrieve provisions"
	MessageFailedGetDashboard  = "failed to retrieve dashboard"

	ErrProvisionNotFound    = errors.New("provision not found")
	ErrItemOutOfStock       = errors.New("item is out of stock")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrReturnByPast         = errors.New("return by date must be in the future")
	ErrReturnByInvalid      = errors.New("please enter a valid return by date")
	ErrIssueToAdmin         = errors.New("items cannot be issued to an admin")
	ErrEmptyBatch           = errors.New("no provision lines submitted")
)

type (
	RequestItemRequest struct {
		ItemID string `json:"item_id" validate:"required,uuid"`
	}

	ApproveProvisionRequest struct {
		Quantity int    `json:"quantity" validate:"omitempty,min=1"`
		ReturnBy string `json:"return_by" validate:"omitempty"`
	}

	IssueItemRequest struct {
		ItemID   string `json:"item_id" validate:"required,uuid"`
		UserID   string `json:"user_id" validate:"required,uuid"`
		Quantity int    `json:"quantity" validate:"omitempty,min=1"`
		ReturnBy string `json:"return_by" validate:"omitempty"`
	}

	IssueItemsRequest struct {
		Lines []IssueItemRequest `json:"lines" validate:"required,min=1,dive"`
	}

	ProvisionResponse struct {
		ID            string     `json:"id"`
		ItemID        string     `json:"item_id"`
		ItemName      string     `json:"item_name,omitempty"`
		Description   string     `json:"description,omitempty"`
		UserID        string     `json:"user_id"`
		UserEmail     string     `json:"user_email,omitempty"`
		Timestamp     time.Time  `json:"timestamp"`
		Approved      bool       `json:"approved"`
		ApprovedOn    *time.Time `json:"approved_on,omitempty"`
		ReturnBy      *time.Time `json:"return_by,omitempty"`
		Quantity      int        `json:"quantity"`
		Returned      bool       `json:"returned"`
		ReturnedOn    *time.Time `json:"returned_on,omitempty"`
		RequestByUser bool       `json:"request_by_user"`
	}

	DashboardResponse struct {
		Pending      []*ProvisionResponse `json:"pending"`
		Approved     []*ProvisionResponse `json:"approved"`
		PendingMore  bool                 `json:"pending_more"`
		ApprovedMore bool                 `json:"approved_more"`
	}
)
