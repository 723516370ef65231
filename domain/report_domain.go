package domain

import "errors"

var (
	MessageSuccessGetReport   = "report generated successfully"
	MessageSuccessEmailReport = "report has been queued for delivery"
	MessageFailedGetReport    = "failed to generate report"
	MessageFailedEmailReport  = "failed to email report"

	ErrInvalidDateRange = errors.New("invalid date range")
)

type (
	ReportRequest struct {
		From string `json:"from" query:"from" validate:"required,datetime=2006-01-02"`
		To   string `json:"to" query:"to" validate:"required,datetime=2006-01-02"`
	}

	EmailReportRequest struct {
		From  string `json:"from" validate:"required,datetime=2006-01-02"`
		To    string `json:"to" validate:"required,datetime=2006-01-02"`
		Email string `json:"email" validate:"required,email"`
	}

	// ReportRow aggregates approved provision quantity per item within the
	// requested date window.
	ReportRow struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Returnable  bool   `json:"returnable"`
		Quantity    int    `json:"quantity"`
	}
)
