package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"gizmohub_back_end/internal/models"
	"gizmohub_back_end/internal/utils"
)

// Migrate creates or updates the schema. Parents come before the tables referencing them.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.Customer{},
		&models.Admin{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedAdmin creates the bootstrap admin account unless the username already exists.
func SeedAdmin(db *gorm.DB, username, password, fullName string) error {
	if username == "" || password == "" {
		return nil
	}

	var existing models.Admin
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Admin{Username: username, Password: hash, FullName: fullName}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("✅ Admin %q created", username)
	return nil
}
