package common

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectDb opens the sqlite content database. Foreign keys are not created at
// migration time; cascades are done by the stores.
func ConnectDb(dbFile string) *gorm.DB {
	log.Println("attemptConnectDb: sqlite_db:", dbFile)
	if dbFile == "" {
		log.Println("sqlite_db not set")
		return nil
	}

	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Println("Error opening sqlite db: " + err.Error())
		return nil
	}

	// sqlite has a single writer.
	sqlDB, err := db.DB()
	if err != nil {
		log.Println("Error reading sqlite pool: " + err.Error())
		return nil
	}
	sqlDB.SetMaxOpenConns(1)

	log.Println("opened sqlite db at:", dbFile)
	return db
}
