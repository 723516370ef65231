package handlers

import (
	"errors"

	"inventory-provision-api/domain"
	"inventory-provision-api/internal/api/presenters"
	"inventory-provision-api/pkg/provision"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ProvisionHandler interface {
		RequestItem(c *fiber.Ctx) error
		ApproveRequest(c *fiber.Ctx) error
		IssueItems(c *fiber.Ctx) error
		ReturnItem(c *fiber.Ctx) error
		Dashboard(c *fiber.Ctx) error
		ListPending(c *fiber.Ctx) error
		ListApproved(c *fiber.Ctx) error
	}

	provisionHandler struct {
		provisionService provision.ProvisionService
		validator        *validator.Validate
	}
)

func NewProvisionHandler(provisionService provision.ProvisionService, validator *validator.Validate) ProvisionHandler {
	return &provisionHandler{
		provisionService: provisionService,
		validator:        validator,
	}
}

// notFoundErr reports whether err should surface as a 404. Ownership and
// role violations are folded in so callers cannot probe other users' records.
func notFoundErr(err error) bool {
	return errors.Is(err, domain.ErrProvisionNotFound) ||
		errors.Is(err, domain.ErrItemNotFound) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrUserNotAllowed)
}

func (h *provisionHandler) RequestItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RequestItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRequestItem, err)
	}

	res, err := h.provisionService.RequestItem(c.Context(), *req, userID)
	if err != nil {
		if notFoundErr(err) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRequestItem, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRequestItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRequestItem)
}

func (h *provisionHandler) ApproveRequest(c *fiber.Ctx) error {
	provisionID := c.Params("provision_id")
	req := new(domain.ApproveProvisionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApproveItem, err)
	}

	res, err := h.provisionService.ApproveRequest(c.Context(), provisionID, *req)
	if err != nil {
		if notFoundErr(err) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedApproveItem, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApproveItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessApproveItem)
}

func (h *provisionHandler) IssueItems(c *fiber.Ctx) error {
	req := new(domain.IssueItemsRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedIssueItems, err)
	}

	res, err := h.provisionService.IssueItems(c.Context(), *req)
	if err != nil {
		if notFoundErr(err) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedIssueItems, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedIssueItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessIssueItems)
}

func (h *provisionHandler) ReturnItem(c *fiber.Ctx) error {
	provisionID := c.Params("provision_id")

	res, err := h.provisionService.ReturnItem(c.Context(), provisionID)
	if err != nil {
		if notFoundErr(err) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedReturnItem, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReturnItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessReturnItem)
}

func (h *provisionHandler) Dashboard(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	res, err := h.provisionService.Dashboard(c.Context(), userID, role == domain.RoleAdmin)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDashboard, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func (h *provisionHandler) ListPending(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	res, total, err := h.provisionService.ListPending(c.Context(), userID, role == domain.RoleAdmin, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetProvisions, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"provisions": res,
		"total":      total,
	}, fiber.StatusOK, domain.MessageSuccessGetProvisions)
}

func (h *provisionHandler) ListApproved(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	res, total, err := h.provisionService.ListApproved(c.Context(), userID, role == domain.RoleAdmin, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetProvisions, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"provisions": res,
		"total":      total,
	}, fiber.StatusOK, domain.MessageSuccessGetProvisions)
}
