package bootstrap

import (
	"log"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Genre{},
		&entity.Title{},
		&entity.Review{},
		&entity.Comment{},
	)
}

// SeedAdminUser creates the initial superuser so a fresh deployment has
// someone able to promote other accounts. With the passwordless flow the
// account needs nothing beyond a username and a reachable email.
func SeedAdminUser(db *gorm.DB, username, email string) error {
	if username == "" || email == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	admin := entity.User{
		Username:    username,
		Email:       email,
		Role:        entity.RoleAdmin,
		IsSuperuser: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Admin user %q seeded", username)
	return nil
}
