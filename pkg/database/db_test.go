package database_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"

	"github.com/shashiranjanraj/lookup/pkg/database"
)

type pair struct {
	ScreenName string
	Name       string
}

type counter struct {
	N int
}

func openTemp(t *testing.T) *database.Handle {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.sqlite")
	h, err := database.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestOpenSQLiteAndRoundTrip(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()

	assert.Equal(t, "sqlite", h.Driver())
	assert.Equal(t, "db.sqlite", filepath.Base(h.Path()))

	_, err := h.Exec(ctx, `CREATE TABLE pairs (screen_name TEXT PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)

	n, err := h.Exec(ctx, `INSERT INTO pairs (screen_name, name) VALUES (?, ?), (?, ?)`, "a", "A", "b", "B")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var rows []pair
	require.NoError(t, h.Query(ctx, &rows, `SELECT screen_name, name FROM pairs WHERE screen_name = ?`, "b"))
	require.Len(t, rows, 1)
	assert.Equal(t, pair{ScreenName: "b", Name: "B"}, rows[0])
}

func TestOpenCapsPoolToOneConnection(t *testing.T) {
	h := openTemp(t)

	sqlDB, err := h.DB(context.Background()).DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open("oracle", "whatever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, database.ErrOpen))
}

func TestOpenUnreachablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "db.sqlite")
	_, err := database.Open("sqlite", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, database.ErrOpen))
}

func TestBadStatementIsQueryError(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()

	_, err := h.Exec(ctx, `CREATE TABLE`)
	assert.True(t, errors.Is(err, database.ErrQuery), "got %v", err)

	var rows []pair
	err = h.Query(ctx, &rows, `SELECT screen_name, name FROM no_such_table`)
	assert.True(t, errors.Is(err, database.ErrQuery), "got %v", err)
}

func TestConstraintViolationIsQueryError(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()

	_, err := h.Exec(ctx, `CREATE TABLE pairs (screen_name TEXT PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	_, err = h.Exec(ctx, `INSERT INTO pairs (screen_name, name) VALUES ('a', 'A')`)
	require.NoError(t, err)

	_, err = h.Exec(ctx, `INSERT INTO pairs (screen_name, name) VALUES ('a', 'again')`)
	assert.True(t, errors.Is(err, database.ErrQuery), "got %v", err)
}

func TestConcurrentStatementsShareOneHandle(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()

	_, err := h.Exec(ctx, `CREATE TABLE counters (id INTEGER PRIMARY KEY, n INTEGER)`)
	require.NoError(t, err)
	_, err = h.Exec(ctx, `INSERT INTO counters (id, n) VALUES (1, 0)`)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.Exec(ctx, `UPDATE counters SET n = n + 1 WHERE id = 1`); err != nil {
				errs <- err
			}
			var out []counter
			if err := h.Query(ctx, &out, `SELECT n FROM counters WHERE id = 1`); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent statement failed: %v", err)
	}

	var out []counter
	require.NoError(t, h.Query(ctx, &out, `SELECT n FROM counters WHERE id = 1`))
	require.Len(t, out, 1)
	assert.Equal(t, workers, out[0].N)
}

func TestExecErrorKeepsDriverCause(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	h, err := database.OpenWith(postgres.New(postgres.Config{Conn: sqlDB}), "mock")
	require.NoError(t, err)
	assert.Equal(t, "mock", h.Path())

	cause := errors.New("disk I/O error")
	mock.ExpectExec("UPDATE users").WillReturnError(cause)

	_, err = h.Exec(context.Background(), `UPDATE users SET name = ? WHERE screen_name = ?`, "x", "foo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, database.ErrQuery))
	assert.True(t, errors.Is(err, cause))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryScansMockRows(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	h, err := database.OpenWith(postgres.New(postgres.Config{Conn: sqlDB}), "mock")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT screen_name, name FROM users").
		WithArgs("foo").
		WillReturnRows(sqlmock.NewRows([]string{"screen_name", "name"}).AddRow("foo", "Test User Foo!"))

	var rows []pair
	require.NoError(t, h.Query(context.Background(), &rows, `SELECT screen_name, name FROM users WHERE screen_name = ?`, "foo"))
	assert.Equal(t, []pair{{ScreenName: "foo", Name: "Test User Foo!"}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
