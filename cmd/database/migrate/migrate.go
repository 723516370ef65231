package migration

import (
	"fmt"
	"log"

	"inventory-provision-api/entities"
	"inventory-provision-api/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Item{}); err != nil {
		log.Fatalf("Error migrating item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Provision{}); err != nil {
		log.Fatalf("Error migrating provision database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}

// SeedAdmin creates the bootstrap administrator when no admin exists yet.
// Without at least one admin nobody can add items or provision anything.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entities.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := utils.GetConfig("BOOTSTRAP_ADMIN_EMAIL")
	password := utils.GetConfig("BOOTSTRAP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("no bootstrap admin configured, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := entities.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: "Admin",
		IsAdmin:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	fmt.Println("Bootstrap admin created")
	return nil
}
