package handlers

import (
	"inventory-provision-api/domain"
	"inventory-provision-api/internal/api/presenters"
	"inventory-provision-api/pkg/report"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReportHandler interface {
		GetReport(c *fiber.Ctx) error
		EmailReport(c *fiber.Ctx) error
	}

	reportHandler struct {
		reportService report.ReportService
		validator     *validator.Validate
	}
)

func NewReportHandler(reportService report.ReportService, validator *validator.Validate) ReportHandler {
	return &reportHandler{
		reportService: reportService,
		validator:     validator,
	}
}

func (h *reportHandler) GetReport(c *fiber.Ctx) error {
	req := domain.ReportRequest{
		From: c.Query("from"),
		To:   c.Query("to"),
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetReport, err)
	}

	res, err := h.reportService.Generate(c.Context(), req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetReport, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReport)
}

func (h *reportHandler) EmailReport(c *fiber.Ctx) error {
	req := new(domain.EmailReportRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEmailReport, err)
	}

	if err := h.reportService.EmailReport(c.Context(), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEmailReport, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusAccepted, domain.MessageSuccessEmailReport)
}
