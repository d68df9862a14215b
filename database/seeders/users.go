// Package seeders holds the data steps run after the schema steps.
package seeders

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/lookup/app/models"
	"github.com/shashiranjanraj/lookup/pkg/migration"
)

// All returns the seed steps in the order they must run.
func All() []migration.Step {
	return []migration.Step{
		SeedUsers{},
	}
}

// CanonicalUsers are the rows SeedUsers guarantees after every run.
func CanonicalUsers() []models.User {
	return []models.User{
		{ScreenName: "foo", Name: "Test User Foo!"},
		{ScreenName: "bar", Name: "Test User Bar!"},
		{ScreenName: "baz", Name: "Test User Baz!"},
	}
}

// SeedUsers upserts CanonicalUsers by screen_name. Existing rows with those
// keys get their canonical name back; other rows are left alone.
type SeedUsers struct{}

func (SeedUsers) Name() string { return "seed_users" }

func (SeedUsers) Up(ctx context.Context, db *gorm.DB) error {
	users := CanonicalUsers()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "screen_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&users).Error
}
