package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"inventory-provision-api/domain"
	"inventory-provision-api/internal/utils/mailing"
)

type (
	ReportService interface {
		Generate(ctx context.Context, req domain.ReportRequest) ([]domain.ReportRow, error)
		EmailReport(ctx context.Context, req domain.EmailReportRequest) error
	}

	reportService struct {
		reportRepository ReportRepository
		mailer           mailing.Mailer
	}
)

func NewReportService(reportRepository ReportRepository, mailer mailing.Mailer) ReportService {
	return &reportService{
		reportRepository: reportRepository,
		mailer:           mailer,
	}
}

// parseWindow turns the inclusive from/to dates into a half-open window.
func parseWindow(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	to, err := time.Parse("2006-01-02", toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return from, to.AddDate(0, 0, 1), nil
}

func (s *reportService) Generate(ctx context.Context, req domain.ReportRequest) ([]domain.ReportRow, error) {
	from, to, err := parseWindow(req.From, req.To)
	if err != nil {
		return nil, err
	}
	return s.reportRepository.AggregateApproved(ctx, from, to)
}

func (s *reportService) EmailReport(ctx context.Context, req domain.EmailReportRequest) error {
	from, to, err := parseWindow(req.From, req.To)
	if err != nil {
		return err
	}

	rows, err := s.reportRepository.AggregateApproved(ctx, from, to)
	if err != nil {
		return err
	}

	data, err := renderCSV(rows)
	if err != nil {
		return err
	}

	s.mailer.Queue(mailing.Message{
		Subject: "Report",
		Body:    "Report attached",
		To:      []string{req.Email},
		Attachment: &mailing.Attachment{
			Name:        "Report.csv",
			ContentType: "text/csv",
			Data:        data,
		},
	})
	return nil
}

func renderCSV(rows []domain.ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "description", "returnable", "quantity"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			row.Description,
			strconv.FormatBool(row.Returnable),
			strconv.Itoa(row.Quantity),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
