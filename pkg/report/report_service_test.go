package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"inventory-provision-api/domain"
	"inventory-provision-api/entities"
	"inventory-provision-api/internal/utils/mailing"
)

type recorderMailer struct {
	messages []mailing.Message
}

func (m *recorderMailer) Queue(msg mailing.Message) {
	m.messages = append(m.messages, msg)
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}, &entities.Item{}, &entities.Provision{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedApproved(t *testing.T, db *gorm.DB, item *entities.Item, user *entities.User, quantity int, approvedOn time.Time) {
	t.Helper()
	p := &entities.Provision{
		ItemID:     item.ID,
		UserID:     user.ID,
		Timestamp:  approvedOn,
		Approved:   true,
		ApprovedOn: &approvedOn,
		Quantity:   quantity,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed provision: %v", err)
	}
}

func seedFixtures(t *testing.T, db *gorm.DB) (*entities.Item, *entities.Item, *entities.User) {
	t.Helper()
	laptop := &entities.Item{Name: "Laptop", Description: "14 inch", Returnable: true, Quantity: 10}
	pen := &entities.Item{Name: "Pen", Quantity: 50}
	alice := &entities.User{Email: "alice@corp.test", Password: "x"}
	for _, rec := range []interface{}{laptop, pen, alice} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return laptop, pen, alice
}

func TestGenerateAggregatesPerItemInWindow(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(NewReportRepository(db), &recorderMailer{})
	ctx := context.Background()

	laptop, pen, alice := seedFixtures(t, db)

	inWindow := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	lastDay := time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	outside := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	seedApproved(t, db, laptop, alice, 2, inWindow)
	seedApproved(t, db, laptop, alice, 1, lastDay)
	seedApproved(t, db, pen, alice, 5, inWindow)
	seedApproved(t, db, pen, alice, 9, outside)

	rows, err := svc.Generate(ctx, domain.ReportRequest{From: "2026-03-01", To: "2026-03-15"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v, want 2", rows)
	}
	if rows[0].Name != "Laptop" || rows[0].Quantity != 3 {
		t.Errorf("row 0 = %+v, want Laptop quantity 3", rows[0])
	}
	if !rows[0].Returnable || rows[0].Description != "14 inch" {
		t.Errorf("row 0 = %+v, item columns not carried through", rows[0])
	}
	if rows[1].Name != "Pen" || rows[1].Quantity != 5 {
		t.Errorf("row 1 = %+v, want Pen quantity 5 (outside window excluded)", rows[1])
	}
}

func TestGenerateRejectsInvertedWindow(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(NewReportRepository(db), &recorderMailer{})

	_, err := svc.Generate(context.Background(), domain.ReportRequest{From: "2026-03-15", To: "2026-03-01"})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestEmailReportQueuesCSVAttachment(t *testing.T) {
	db := testDB(t)
	mailer := &recorderMailer{}
	svc := NewReportService(NewReportRepository(db), mailer)
	ctx := context.Background()

	laptop, _, alice := seedFixtures(t, db)
	seedApproved(t, db, laptop, alice, 2, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	err := svc.EmailReport(ctx, domain.EmailReportRequest{
		From:  "2026-03-01",
		To:    "2026-03-15",
		Email: "boss@corp.test",
	})
	if err != nil {
		t.Fatalf("EmailReport: %v", err)
	}

	if len(mailer.messages) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mailer.messages))
	}
	msg := mailer.messages[0]
	if msg.Subject != "Report" || msg.To[0] != "boss@corp.test" {
		t.Errorf("message = %+v", msg)
	}
	if msg.Attachment == nil {
		t.Fatal("report mail must carry an attachment")
	}
	if msg.Attachment.Name != "Report.csv" || msg.Attachment.ContentType != "text/csv" {
		t.Errorf("attachment = %+v", msg.Attachment)
	}

	lines := strings.Split(strings.TrimSpace(string(msg.Attachment.Data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv = %q, want header plus one row", lines)
	}
	if lines[0] != "name,description,returnable,quantity" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Laptop,14 inch,true,2" {
		t.Errorf("row = %q", lines[1])
	}
}
