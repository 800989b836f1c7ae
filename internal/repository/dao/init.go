package dao

import (
	"fmt"

	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Game{},
		&FarmSource{},
		&FarmReward{},
		&FarmEvent{},
		&FarmDrop{},
	)
	if err != nil {
		return fmt.Errorf("db.AutoMigrate -> %w", err)
	}

	// Usernames and emails are unique regardless of case.
	for _, stmt := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))",
	} {
		if err = db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("db.Exec -> %w", err)
		}
	}

	return nil
}

// DropAllTables removes every table in the public schema.
func DropAllTables(db *gorm.DB) error {
	var tableNames []string
	if err := db.Table("information_schema.tables").
		Where("table_schema = ?", "public").
		Pluck("table_name", &tableNames).Error; err != nil {
		return err
	}

	for _, tableName := range tableNames {
		if err := db.Exec("DROP TABLE IF EXISTS " + tableName + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
