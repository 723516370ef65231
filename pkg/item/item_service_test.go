package item

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"inventory-provision-api/domain"
	"inventory-provision-api/entities"
	"inventory-provision-api/internal/utils/mailing"
	"inventory-provision-api/pkg/user"
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
	if err := db.AutoMigrate(&entities.User{}, &entities.Item{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(db *gorm.DB) (ItemService, *recorderMailer) {
	mailer := &recorderMailer{}
	svc := NewItemService(NewItemRepository(db), user.NewUserRepository(db), mailer)
	return svc, mailer
}

func seedUser(t *testing.T, db *gorm.DB, email string, admin bool) *entities.User {
	t.Helper()
	u := &entities.User{Email: email, Password: "x", IsAdmin: admin}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func TestAddItemNotifiesEveryone(t *testing.T) {
	db := testDB(t)
	svc, mailer := newTestService(db)
	ctx := context.Background()

	seedUser(t, db, "admin@corp.test", true)
	seedUser(t, db, "alice@corp.test", false)

	res, err := svc.AddItem(ctx, domain.AddItemRequest{
		Name:       "Laptop",
		Returnable: true,
		Quantity:   4,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if res.Quantity != 4 || !res.Returnable {
		t.Errorf("response = %+v", res)
	}

	if len(mailer.messages) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mailer.messages))
	}
	msg := mailer.messages[0]
	if msg.Subject != "New Inventory Item Added" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.Body != "Laptop has been added to inventory. Quantity added is 4" {
		t.Errorf("body = %q", msg.Body)
	}
	if len(msg.To) != 2 {
		t.Errorf("recipients = %v, want every user", msg.To)
	}
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	db := testDB(t)
	svc, mailer := newTestService(db)

	_, err := svc.AddItem(context.Background(), domain.AddItemRequest{Name: "Pen", Quantity: 0})
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("err = %v, want ErrInvalidQuantity", err)
	}

	var count int64
	db.Model(&entities.Item{}).Count(&count)
	if count != 0 {
		t.Errorf("item rows = %d, want 0", count)
	}
	if len(mailer.messages) != 0 {
		t.Errorf("mails sent = %d, want 0", len(mailer.messages))
	}
}

func TestAddItemRejectsDuplicateName(t *testing.T) {
	db := testDB(t)
	svc, _ := newTestService(db)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, domain.AddItemRequest{Name: "Laptop", Quantity: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	_, err := svc.AddItem(ctx, domain.AddItemRequest{Name: "Laptop", Quantity: 2})
	if !errors.Is(err, domain.ErrDuplicateItemName) {
		t.Fatalf("err = %v, want ErrDuplicateItemName", err)
	}
}

func TestEditItemNotifiesAdminsOnly(t *testing.T) {
	db := testDB(t)
	svc, mailer := newTestService(db)
	ctx := context.Background()

	seedUser(t, db, "admin@corp.test", true)
	seedUser(t, db, "alice@corp.test", false)

	created, err := svc.AddItem(ctx, domain.AddItemRequest{Name: "Laptop", Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	mailer.messages = nil

	res, err := svc.EditItem(ctx, created.ID, domain.EditItemRequest{
		Description: "14 inch",
		Quantity:    3,
	})
	if err != nil {
		t.Fatalf("EditItem: %v", err)
	}
	if res.Description != "14 inch" || res.Quantity != 3 {
		t.Errorf("response = %+v", res)
	}

	if len(mailer.messages) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mailer.messages))
	}
	msg := mailer.messages[0]
	if msg.Subject != "Inventory Item Updated" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.Body != "Inventory Item - Laptop has been updated." {
		t.Errorf("body = %q", msg.Body)
	}
	if len(msg.To) != 1 || msg.To[0] != "admin@corp.test" {
		t.Errorf("recipients = %v, want admins only", msg.To)
	}
}

func TestEditItemNoChangeStaysSilent(t *testing.T) {
	db := testDB(t)
	svc, mailer := newTestService(db)
	ctx := context.Background()

	seedUser(t, db, "admin@corp.test", true)

	created, err := svc.AddItem(ctx, domain.AddItemRequest{Name: "Laptop", Description: "14 inch", Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	mailer.messages = nil

	if _, err := svc.EditItem(ctx, created.ID, domain.EditItemRequest{
		Description: "14 inch",
		Quantity:    2,
	}); err != nil {
		t.Fatalf("EditItem: %v", err)
	}
	if len(mailer.messages) != 0 {
		t.Errorf("mails sent = %d, want 0 for a no-op save", len(mailer.messages))
	}
}

func TestEditItemNotFound(t *testing.T) {
	db := testDB(t)
	svc, _ := newTestService(db)

	_, err := svc.EditItem(context.Background(), "2f9cba30-0000-0000-0000-000000000000", domain.EditItemRequest{Quantity: 1})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
}

func TestZeroQuantityItemPersists(t *testing.T) {
	db := testDB(t)

	it := &entities.Item{Name: "Pen", Quantity: 0}
	if err := db.Create(it).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	var reloaded entities.Item
	if err := db.First(&reloaded, "id = ?", it.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloaded.Quantity != 0 {
		t.Errorf("quantity = %d, want 0 (zero stock is a valid state)", reloaded.Quantity)
	}
}

func TestSearchItemsSkipsOutOfStock(t *testing.T) {
	db := testDB(t)
	svc, _ := newTestService(db)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, domain.AddItemRequest{Name: "Cable HDMI", Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	drained, err := svc.AddItem(ctx, domain.AddItemRequest{Name: "Cable USB", Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := db.Model(&entities.Item{}).Where("id = ?", drained.ID).Update("quantity", 0).Error; err != nil {
		t.Fatalf("drain item: %v", err)
	}

	found, err := svc.SearchItems(ctx, "Cable")
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Cable HDMI" {
		t.Errorf("search results = %+v, want only the in-stock item", found)
	}
}
