package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/domain"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// RoleOf implements middleware.UserLookup.
func (r *Repository) RoleOf(ctx context.Context, userID int64) (string, bool, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Select("id", "role").First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(u.Role), true, nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var (
		users []domain.User
		total int64
	)
	q := r.db.WithContext(ctx).Model(&domain.User{}).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the user together with their recipes (and everything hanging
// off them), follows in both directions, favorites and cart items.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var authored []int64
		if err := tx.Model(&domain.Recipe{}).Where("author_id = ?", id).Pluck("id", &authored).Error; err != nil {
			return err
		}

		steps := []struct {
			model interface{}
			query string
			args  []interface{}
		}{
			{&domain.IngredientInRecipe{}, "recipe_id IN ?", []interface{}{authored}},
			{&domain.TagInRecipe{}, "recipe_id IN ?", []interface{}{authored}},
			{&domain.Favorite{}, "user_id = ? OR recipe_id IN ?", []interface{}{id, authored}},
			{&domain.ShoppingCartItem{}, "user_id = ? OR recipe_id IN ?", []interface{}{id, authored}},
			{&domain.Follow{}, "user_id = ? OR author_id = ?", []interface{}{id, id}},
			{&domain.Recipe{}, "author_id = ?", []interface{}{id}},
		}
		for _, s := range steps {
			if err := tx.Where(s.query, s.args...).Delete(s.model).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&domain.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *Repository) Stats(ctx context.Context, id int64) (UserStats, error) {
	var stats UserStats
	db := r.db.WithContext(ctx)
	if err := db.Model(&domain.Recipe{}).Where("author_id = ?", id).Count(&stats.RecipesCount).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&domain.Follow{}).Where("author_id = ?", id).Count(&stats.FollowersCount).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
