package services_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"

	"github.com/shashiranjanraj/lookup/app/models"
	"github.com/shashiranjanraj/lookup/app/services"
	"github.com/shashiranjanraj/lookup/database/seeders"
	"github.com/shashiranjanraj/lookup/pkg/database"
)

func openTemp(t *testing.T) *database.Handle {
	t.Helper()
	h, err := database.Open("sqlite", filepath.Join(t.TempDir(), "db.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func migrate(t *testing.T, h *database.Handle) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, services.NewMigrationService(h, &out).Run(context.Background()))
	return &out
}

func allUsers(t *testing.T, h *database.Handle) []models.User {
	t.Helper()
	var users []models.User
	require.NoError(t, h.Query(context.Background(), &users, `SELECT screen_name, name FROM users ORDER BY screen_name`))
	return users
}

func TestMigrationPrintsStoragePath(t *testing.T) {
	h := openTemp(t)
	out := migrate(t, h)
	assert.Contains(t, out.String(), "Migrating "+h.Path())
}

func TestMigrationIsIdempotent(t *testing.T) {
	h := openTemp(t)

	migrate(t, h)
	migrate(t, h)

	assert.Equal(t, []models.User{
		{ScreenName: "bar", Name: "Test User Bar!"},
		{ScreenName: "baz", Name: "Test User Baz!"},
		{ScreenName: "foo", Name: "Test User Foo!"},
	}, allUsers(t, h))
}

func TestMigrationRestoresCanonicalNamesAndKeepsOtherRows(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()
	migrate(t, h)

	_, err := h.Exec(ctx, `UPDATE users SET name = ? WHERE screen_name = ?`, "Renamed", "foo")
	require.NoError(t, err)
	_, err = h.Exec(ctx, `INSERT INTO users (screen_name, name) VALUES (?, ?)`, "qux", "Someone Else")
	require.NoError(t, err)

	migrate(t, h)

	users := allUsers(t, h)
	require.Len(t, users, 4)
	byName := map[string]string{}
	for _, u := range users {
		byName[u.ScreenName] = u.Name
	}
	for _, canonical := range seeders.CanonicalUsers() {
		assert.Equal(t, canonical.Name, byName[canonical.ScreenName])
	}
	assert.Equal(t, "Someone Else", byName["qux"])
}

func TestGetUserHit(t *testing.T) {
	h := openTemp(t)
	migrate(t, h)
	users := services.NewUserService(h)

	for _, want := range seeders.CanonicalUsers() {
		got, err := users.GetUser(context.Background(), want.ScreenName)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGetUserMiss(t *testing.T) {
	h := openTemp(t)
	migrate(t, h)
	users := services.NewUserService(h)

	for _, name := range []string{"qux", "", "FOO", "foo "} {
		_, err := users.GetUser(context.Background(), name)
		assert.True(t, errors.Is(err, services.ErrUserNotFound), "%q: %v", name, err)
	}
}

func TestGetUserSeesWritesImmediately(t *testing.T) {
	h := openTemp(t)
	migrate(t, h)
	users := services.NewUserService(h)
	ctx := context.Background()

	_, err := h.Exec(ctx, `UPDATE users SET name = ? WHERE screen_name = ?`, "Changed", "bar")
	require.NoError(t, err)

	got, err := users.GetUser(ctx, "bar")
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Name)
}

func TestGetUserWithoutSchemaIsQueryError(t *testing.T) {
	h := openTemp(t)
	users := services.NewUserService(h)

	_, err := users.GetUser(context.Background(), "foo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, database.ErrQuery))
	assert.False(t, errors.Is(err, services.ErrUserNotFound))
}

func TestGetUserStorageFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	h, err := database.OpenWith(postgres.New(postgres.Config{Conn: sqlDB}), "mock")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnError(errors.New("connection reset"))

	_, err = services.NewUserService(h).GetUser(context.Background(), "foo")
	assert.True(t, errors.Is(err, database.ErrQuery))
	assert.NoError(t, mock.ExpectationsWereMet())
}
