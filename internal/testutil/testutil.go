// Package testutil builds in-memory databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain"
)

// NewDB returns a migrated, private in-memory SQLite database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t testing.TB, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    username,
		LastName:     "Test",
		PasswordHash: "not-a-real-hash",
		Role:         domain.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateAdmin(t testing.TB, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := CreateUser(t, db, username)
	require.NoError(t, db.Model(u).Update("role", domain.RoleAdmin).Error)
	u.Role = domain.RoleAdmin
	return u
}

func CreateIngredient(t testing.TB, db *gorm.DB, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func CreateTag(t testing.TB, db *gorm.DB, name, slug, color string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name}
	if slug != "" {
		tag.Slug = &slug
	}
	if color != "" {
		tag.Color = &color
	}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// Amount pairs an ingredient with a quantity for CreateRecipe.
type Amount struct {
	IngredientID int64
	Amount       int
}

// CreateRecipe inserts a recipe with its join rows directly, bypassing the
// recipe service. pubOffset shifts pub_date so ordering is deterministic.
func CreateRecipe(t testing.TB, db *gorm.DB, authorID int64, name string, pubOffset time.Duration, amounts []Amount, tagIDs ...int64) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		Image:       "data:image/png;base64,iVBORw0KGgo=",
		CookingTime: 10,
		PubDate:     time.Now().Add(pubOffset),
	}
	require.NoError(t, db.Create(r).Error)
	for _, a := range amounts {
		require.NoError(t, db.Create(&domain.IngredientInRecipe{RecipeID: r.ID, IngredientID: a.IngredientID, Amount: a.Amount}).Error)
	}
	for _, id := range tagIDs {
		require.NoError(t, db.Create(&domain.TagInRecipe{RecipeID: r.ID, TagID: id}).Error)
	}
	return r
}
