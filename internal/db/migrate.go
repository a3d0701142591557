package db

import (
	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Profile{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.SiteSettings{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedSiteSettings(); err != nil {
		logger.Error("Failed to seed site settings", err)
		return err
	}

	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedSiteSettings guarantees the settings singleton exists.
func seedSiteSettings() error {
	settings := model.SiteSettings{
		ID:              model.SiteSettingsID,
		BankName:        "กสิกรไทย (KBANK)",
		BankAccountName: "Pet Story Club",
	}
	return DB.Where(model.SiteSettings{ID: model.SiteSettingsID}).
		FirstOrCreate(&settings).Error
}

// seedCategories creates the default pet-supply categories on an empty store.
func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	categories := []model.Category{
		{Name: "อาหารสุนัข", Slug: "dog-food", Description: "อาหารเม็ดและอาหารเปียกสำหรับสุนัข"},
		{Name: "อาหารแมว", Slug: "cat-food", Description: "อาหารเม็ดและอาหารเปียกสำหรับแมว"},
		{Name: "ของเล่น", Slug: "toys", Description: "ของเล่นสำหรับสัตว์เลี้ยง"},
		{Name: "อุปกรณ์", Slug: "accessories", Description: "ปลอกคอ สายจูง ที่นอน และอื่น ๆ"},
		{Name: "ขนม", Slug: "treats", Description: "ขนมและอาหารว่างสำหรับสัตว์เลี้ยง"},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": category.Slug,
			})
			return err
		}
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": len(categories),
	})
	return nil
}
