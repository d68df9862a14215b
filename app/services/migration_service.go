package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shashiranjanraj/lookup/database/migrations"
	"github.com/shashiranjanraj/lookup/database/seeders"
	"github.com/shashiranjanraj/lookup/pkg/database"
	"github.com/shashiranjanraj/lookup/pkg/migration"
)

// MigrationService creates the schema and seeds the canonical users. Run
// is idempotent and is meant to be invoked by an operator before serving.
type MigrationService struct {
	db  *database.Handle
	out io.Writer
}

// NewMigrationService writes progress to out, or to stdout when out is nil.
func NewMigrationService(db *database.Handle, out io.Writer) *MigrationService {
	if out == nil {
		out = os.Stdout
	}
	return &MigrationService{db: db, out: out}
}

// Run applies the schema steps, then the seed steps.
func (s *MigrationService) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "Migrating %s\n", s.db.Path())

	steps := append(migrations.All(), seeders.All()...)
	return migration.New(s.db, s.out).Run(ctx, steps...)
}
