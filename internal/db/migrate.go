package db

import (
	"errors"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted model in migration order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.WishlistItem{},
		&model.Counter{},
		&model.Coupon{},
		&model.Order{},
		&model.OrderItem{},
		&model.Blog{},
		&model.BlogView{},
		&model.BlogLike{},
		&model.Review{},
		&model.Comment{},
		&model.ContactMessage{},
		&model.ProductQuestion{},
		&model.Settings{},
		&model.Page{},
		&model.NotificationLog{},
		&model.PasswordReset{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the rows the application expects to exist
func Seed() error {
	return SeedInitialData(DB)
}

func SeedInitialData(db *gorm.DB) error {
	logger.Info("Seeding initial data...")

	if err := seedSettings(db); err != nil {
		logger.Error("Failed to seed settings", err)
		return err
	}
	if err := seedCounters(db); err != nil {
		logger.Error("Failed to seed counters", err)
		return err
	}
	if err := seedPages(db); err != nil {
		logger.Error("Failed to seed pages", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedSettings(db *gorm.DB) error {
	defaults := model.DefaultSettings()
	return db.Where(model.Settings{ID: model.SettingsID}).FirstOrCreate(&defaults).Error
}

func seedCounters(db *gorm.DB) error {
	counter := model.Counter{Name: model.OrderCounterName}
	return db.Where(model.Counter{Name: model.OrderCounterName}).FirstOrCreate(&counter).Error
}

func seedPages(db *gorm.DB) error {
	pages := []model.Page{
		{Slug: "about", Title: "About us", Content: "<p>Noir Parfum curates niche and signature fragrances.</p>", IsPublished: true},
		{Slug: "shipping", Title: "Shipping & returns", Content: "<p>Orders ship within two business days.</p>", IsPublished: true},
		{Slug: "privacy", Title: "Privacy policy", Content: "<p>We only use your details to fulfil your order.</p>", IsPublished: true},
	}

	for _, page := range pages {
		var existing model.Page
		err := db.Where("slug = ?", page.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&page).Error; err != nil {
			return err
		}
		logger.Info("Seeded CMS page", map[string]interface{}{
			"slug": page.Slug,
		})
	}
	return nil
}
