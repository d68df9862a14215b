// Package migration runs ordered, idempotent schema and seed steps.
//
// Every step runs on every Run: steps must be safe to repeat (create if
// absent, upsert by primary key). There is no tracking table and no
// rollback.
//
//	runner := migration.New(handle, os.Stdout)
//	err := runner.Run(ctx, migrations.CreateUsersTable{}, seeders.SeedUsers{})
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lookup/pkg/database"
	"github.com/shashiranjanraj/lookup/pkg/logger"
)

// Step is one idempotent unit of work.
type Step interface {
	// Name identifies the step in output and errors.
	Name() string
	// Up applies the step.
	Up(ctx context.Context, db *gorm.DB) error
}

// ErrNoSteps is returned when Run is called without steps.
var ErrNoSteps = errors.New("migration: no steps given")

// Runner executes steps against one storage handle.
type Runner struct {
	db  *database.Handle
	out io.Writer
}

// New creates a Runner. Progress lines go to out; nil discards them.
func New(db *database.Handle, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

// Run applies steps in order and stops at the first failure. Step failures
// keep database.ErrQuery in their chain.
func (r *Runner) Run(ctx context.Context, steps ...Step) error {
	if len(steps) == 0 {
		return ErrNoSteps
	}

	for _, step := range steps {
		logger.Info("migration: running", "step", step.Name(), "path", r.db.Path())
		fmt.Fprintf(r.out, "  ▶ %s\n", step.Name())

		if err := step.Up(ctx, r.db.DB(ctx)); err != nil {
			return fmt.Errorf("migration: %s: %w", step.Name(), r.db.Wrap(err))
		}
	}

	logger.Info("migration: done", "steps", len(steps), "path", r.db.Path())
	return nil
}

// Func adapts a function into a Step.
func Func(name string, up func(ctx context.Context, db *gorm.DB) error) Step {
	return funcStep{name: name, up: up}
}

type funcStep struct {
	name string
	up   func(ctx context.Context, db *gorm.DB) error
}

func (s funcStep) Name() string { return s.name }

func (s funcStep) Up(ctx context.Context, db *gorm.DB) error { return s.up(ctx, db) }
