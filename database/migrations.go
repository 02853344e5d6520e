package database

import (
	"log"

	"compro/models"

	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Page{},
		&models.Section{},
		&models.SectionItem{},
		&models.Navigation{},
		&models.NavigationItem{},
		&models.Lead{},
		&models.SiteSetting{},
		&models.Visit{},
	)

	if err != nil {
		log.Printf("Error running migrations: %v", err)
		return err
	}

	log.Println("Migrations completed successfully")
	return nil
}
