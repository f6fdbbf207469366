package database

import (
	"fmt"

	"github.com/romuloroldao/Black-House-sub001/config"
	"github.com/romuloroldao/Black-House-sub001/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the PostgreSQL connection and runs migrations. The handle is
// returned to the caller; no package-level database global exists, so every
// component has to receive the exact handle (pool or transaction) it is
// allowed to use.
func Connect() (*gorm.DB, error) {
	host := config.GetEnv("DB_HOST", "localhost")
	user := config.GetEnv("DB_USER", "postgres")
	password := config.GetEnv("DB_PASSWORD", "password")
	dbname := config.GetEnv("DB_NAME", "blackhouse")
	port := config.GetEnv("DB_PORT", "5432")
	sslmode := config.GetEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs schema migrations for all persisted models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Student{},
		&models.FoodType{},
		&models.Food{},
		&models.Diet{},
		&models.DietItem{},
		&models.DietSupplement{},
		&models.ImportRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedFoodTypes inserts the base categories when they are missing. Idempotent:
// existing rows are left untouched.
func SeedFoodTypes(db *gorm.DB) error {
	base := []string{"Protein", "Carbohydrate", "Fat", "Fruit", "Vegetable", "Dairy"}
	for _, name := range base {
		var ft models.FoodType
		err := db.Where("name = ?", name).First(&ft).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&models.FoodType{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to seed food type %q: %w", name, err)
		}
	}
	return nil
}
