// Package interaction stores the "user marked recipe" relations: favorites
// and shopping cart items. Both kinds share one table shape and one store.
package interaction

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Add marks recipeID for userID and returns the recipe's short projection.
// A concurrent duplicate loses on the unique index and gets ErrAlreadyExists.
func (s *Store) Add(ctx context.Context, kind domain.MarkKind, userID, recipeID int64) (*domain.RecipeShort, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	var short domain.RecipeShort
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Recipe{}).
			Select("id", "name", "image", "cooking_time").
			Where("id = ?", recipeID).
			Take(&short).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Create(kind.NewRow(userID, recipeID)).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &short, nil
}

// Remove deletes the mark. ErrNotInList when there was none; ErrRecipeNotFound
// when the recipe itself does not exist.
func (s *Store) Remove(ctx context.Context, kind domain.MarkKind, userID, recipeID int64) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipes int64
		if err := tx.Model(&domain.Recipe{}).Where("id = ?", recipeID).Count(&recipes).Error; err != nil {
			return err
		}
		if recipes == 0 {
			return ErrRecipeNotFound
		}

		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(kind.Model())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotInList
		}
		return nil
	})
}

func (s *Store) Exists(ctx context.Context, kind domain.MarkKind, userID, recipeID int64) (bool, error) {
	if !kind.Valid() {
		return false, ErrUnknownKind
	}
	var n int64
	err := s.db.WithContext(ctx).Table(kind.Table()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}
