package user

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inventory-provision-api/domain"
	"inventory-provision-api/entities"
	"inventory-provision-api/pkg/jwt"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(db *gorm.DB) UserService {
	return NewUserService(NewUserRepository(db), jwt.NewJWTService(), nil)
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, admin bool) *entities.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &entities.User{Email: email, Password: string(hashed), IsAdmin: admin}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func TestLogin(t *testing.T) {
	db := testDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	seedUser(t, db, "alice@corp.test", "s3cret", false)

	res, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@corp.test", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Error("login must return a token")
	}

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@corp.test", Password: "wrong"})
	if !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("wrong password err = %v, want ErrCredentialsInvalid", err)
	}

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@corp.test", Password: "s3cret"})
	if !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("unknown email err = %v, want ErrCredentialsInvalid", err)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db := testDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	seedUser(t, db, "alice@corp.test", "s3cret", false)

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "alice@corp.test",
		Password: "password",
	})
	if !errors.Is(err, domain.ErrEmailAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := testDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	u := seedUser(t, db, "alice@corp.test", "old-pass", false)

	err := svc.ChangePassword(ctx, domain.ChangePasswordRequest{
		OldPassword: "nope",
		NewPassword: "new-pass",
	}, u.ID.String())
	if !errors.Is(err, domain.ErrPasswordIncorrect) {
		t.Fatalf("err = %v, want ErrPasswordIncorrect", err)
	}

	if err := svc.ChangePassword(ctx, domain.ChangePasswordRequest{
		OldPassword: "old-pass",
		NewPassword: "new-pass",
	}, u.ID.String()); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@corp.test", Password: "new-pass"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestSearchUsersExcludesAdmins(t *testing.T) {
	db := testDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	seedUser(t, db, "admin@corp.test", "x", true)
	seedUser(t, db, "alice@corp.test", "x", false)
	seedUser(t, db, "albert@corp.test", "x", false)

	found, err := svc.SearchUsers(ctx, "al")
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("results = %d, want 2", len(found))
	}
	for _, u := range found {
		if u.IsAdmin {
			t.Errorf("admin %s leaked into search results", u.Email)
		}
	}
}
