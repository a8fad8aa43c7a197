package model

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table the
// application owns. Called once at startup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&PasswordResetToken{},
		&Note{},
	)
}
