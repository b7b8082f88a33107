package migration

import (
	"FoodShare/entities"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	}

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Errorf("Error migrating user database: %v", err)
		return fmt.Errorf("migrate users: %w", err)
	}
	if err := db.AutoMigrate(&entities.Pin{}); err != nil {
		log.Errorf("Error migrating pin database: %v", err)
		return fmt.Errorf("migrate pins: %w", err)
	}
	if err := db.AutoMigrate(&entities.PinBookmark{}); err != nil {
		log.Errorf("Error migrating pin bookmark database: %v", err)
		return fmt.Errorf("migrate pin bookmarks: %w", err)
	}

	log.Info("Database migration complete")
	return nil
}
