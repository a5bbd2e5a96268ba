package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestIsCheckViolation(t *testing.T) {
	assert.False(t, IsCheckViolation(nil))
	assert.True(t, IsCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, IsCheckViolation(errors.New("boom")))
}

func TestConnect_GormLogsAtWarn(t *testing.T) {
	db := newTestDB(t)

	var buf bytes.Buffer
	logging.Logger().SetOutput(&buf)
	t.Cleanup(func() { logging.Logger().SetOutput(os.Stdout) })

	db.Logger.Warn(context.Background(), "slow query on %s", "recipes")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warning", entry["severity"])
	assert.Equal(t, "gorm", entry["component"])
	assert.Contains(t, entry["message"], "slow query on recipes")
}

func TestConstraints_SQLite(t *testing.T) {
	db := newTestDB(t)

	alice := &domain.User{Email: "alice@example.com", Username: "alice", PasswordHash: "x", Role: domain.RoleUser}
	bob := &domain.User{Email: "bob@example.com", Username: "bob", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	t.Run("duplicate username", func(t *testing.T) {
		err := db.Create(&domain.User{Email: "other@example.com", Username: "alice", PasswordHash: "x"}).Error
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("self follow", func(t *testing.T) {
		err := db.Create(&domain.Follow{UserID: alice.ID, AuthorID: alice.ID}).Error
		assert.True(t, IsCheckViolation(err))
	})

	t.Run("duplicate follow", func(t *testing.T) {
		require.NoError(t, db.Create(&domain.Follow{UserID: alice.ID, AuthorID: bob.ID}).Error)
		err := db.Create(&domain.Follow{UserID: alice.ID, AuthorID: bob.ID}).Error
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("cooking time out of range", func(t *testing.T) {
		err := db.Create(&domain.Recipe{AuthorID: alice.ID, Name: "r", Text: "t", Image: "i", CookingTime: 0}).Error
		assert.True(t, IsCheckViolation(err))
	})

	t.Run("tag color must look like #RRGGBB", func(t *testing.T) {
		for _, color := range []string{"red", "#abc", "ABCDEF1"} {
			c := color
			err := db.Create(&domain.Tag{Name: "tag " + c, Color: &c}).Error
			assert.True(t, IsCheckViolation(err), color)
		}
		ok := "#A1B2C3"
		require.NoError(t, db.Create(&domain.Tag{Name: "colored", Color: &ok}).Error)
		require.NoError(t, db.Create(&domain.Tag{Name: "plain"}).Error)
	})

	t.Run("duplicate ingredient pair", func(t *testing.T) {
		require.NoError(t, db.Create(&domain.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error)
		require.NoError(t, db.Create(&domain.Ingredient{Name: "salt", MeasurementUnit: "kg"}).Error)
		err := db.Create(&domain.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("favorite and cart are separate tables", func(t *testing.T) {
		recipe := &domain.Recipe{AuthorID: bob.ID, Name: "r", Text: "t", Image: "i", CookingTime: 5}
		require.NoError(t, db.Create(recipe).Error)

		require.NoError(t, db.Create(domain.MarkFavorite.NewRow(alice.ID, recipe.ID)).Error)
		require.NoError(t, db.Create(domain.MarkShoppingCart.NewRow(alice.ID, recipe.ID)).Error)
		err := db.Create(domain.MarkFavorite.NewRow(alice.ID, recipe.ID)).Error
		assert.True(t, IsUniqueViolation(err))
	})
}
