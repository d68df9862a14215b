// Package migrations holds the schema steps run by the migrate command.
package migrations

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lookup/app/models"
	"github.com/shashiranjanraj/lookup/pkg/migration"
)

// All returns the schema steps in the order they must run.
func All() []migration.Step {
	return []migration.Step{
		CreateUsersTable{},
	}
}

// CreateUsersTable creates users(screen_name PRIMARY KEY, name) when absent.
type CreateUsersTable struct{}

func (CreateUsersTable) Name() string { return "20260101000000_create_users_table" }

func (CreateUsersTable) Up(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&models.User{})
}
