// Package database owns the single storage handle of the process.
//
// A Handle wraps one gorm connection whose underlying *sql.DB is capped at a
// single open connection, so every statement issued by any request runs on
// the same connection, one at a time.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/lookup/pkg/metrics"
)

var (
	// ErrOpen reports that the store could not be opened or reached.
	ErrOpen = errors.New("database: open failed")

	// ErrQuery reports a failed statement: syntax, constraint or I/O.
	ErrQuery = errors.New("database: query failed")
)

// Handle is the shared connection to the relational store.
type Handle struct {
	db     *gorm.DB
	driver string
	dsn    string
}

// Open connects to the store described by driver and dsn. For sqlite the
// dsn is the database file path; the file is created when absent.
func Open(driver, dsn string) (*Handle, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	h, err := openDialector(dialector)
	if err != nil {
		return nil, err
	}
	h.driver = driver
	h.dsn = dsn
	return h, nil
}

// OpenWith wraps an already-built dialector, e.g. one backed by an existing
// *sql.DB. name is reported by Path.
func OpenWith(dialector gorm.Dialector, name string) (*Handle, error) {
	h, err := openDialector(dialector)
	if err != nil {
		return nil, err
	}
	h.driver = dialector.Name()
	h.dsn = name
	return h, nil
}

func openDialector(dialector gorm.Dialector) (*Handle, error) {
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent), // use pkg/logger, not GORM's own
		SkipDefaultTransaction: true,
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: get sql.DB: %v", ErrOpen, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrOpen, err)
	}

	return &Handle{db: db}, nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}

// Path identifies the store: the file path for sqlite, the DSN otherwise.
func (h *Handle) Path() string { return h.dsn }

// Driver returns the dialect name.
func (h *Handle) Driver() string { return h.driver }

// DB returns a gorm session bound to ctx.
func (h *Handle) DB(ctx context.Context) *gorm.DB {
	return h.db.WithContext(ctx)
}

// Query runs a read statement and scans every returned row into dest.
func (h *Handle) Query(ctx context.Context, dest interface{}, stmt string, args ...interface{}) error {
	start := time.Now()
	err := h.db.WithContext(ctx).Raw(stmt, args...).Scan(dest).Error
	metrics.ObserveDBQuery("query", start, err)
	return h.Wrap(err)
}

// Exec runs a write statement and returns the number of affected rows.
func (h *Handle) Exec(ctx context.Context, stmt string, args ...interface{}) (int64, error) {
	start := time.Now()
	res := h.db.WithContext(ctx).Exec(stmt, args...)
	metrics.ObserveDBQuery("exec", start, res.Error)
	if res.Error != nil {
		return 0, h.Wrap(res.Error)
	}
	return res.RowsAffected, nil
}

// Wrap turns a statement failure into an ErrQuery error. nil stays nil.
func (h *Handle) Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrQuery) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrQuery, err)
}

// Close releases the connection.
func (h *Handle) Close() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Find runs a builder query and loads the result into dest. build receives
// a session bound to ctx.
func (h *Handle) Find(ctx context.Context, dest interface{}, build func(tx *gorm.DB) *gorm.DB) error {
	start := time.Now()
	err := build(h.db.WithContext(ctx)).Find(dest).Error
	metrics.ObserveDBQuery("query", start, err)
	return h.Wrap(err)
}
