package relationship

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain"
)

// Repository handles persistence for follow relations
type Repository interface {
	Follow(ctx context.Context, userID, authorID int64) (*domain.User, error)
	Unfollow(ctx context.Context, userID, authorID int64) error
	FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
	ListFollowing(ctx context.Context, userID int64, offset, limit int) ([]domain.User, int64, error)
	RecentRecipes(ctx context.Context, authorIDs []int64, perAuthor *int) (map[int64][]domain.RecipeShort, error)
	RecipeCounts(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Follow inserts the relation after checking the author exists, in one transaction.
// The unique index decides between concurrent duplicates.
func (r *repository) Follow(ctx context.Context, userID, authorID int64) (*domain.User, error) {
	var author *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if author, err = r.withTx(tx).GetAuthor(ctx, authorID); err != nil {
			return err
		}
		err = tx.Create(&domain.Follow{UserID: userID, AuthorID: authorID}).Error
		switch {
		case database.IsUniqueViolation(err):
			return ErrAlreadySubscribed
		case database.IsCheckViolation(err):
			return ErrCannotSubscribeSelf
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return author, nil
}

func (r *repository) Unfollow(ctx context.Context, userID, authorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.withTx(tx).GetAuthor(ctx, authorID); err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&domain.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotSubscribed
		}
		return nil
	})
}

func (r *repository) withTx(tx *gorm.DB) *repository {
	return &repository{db: tx}
}

// GetAuthor loads a user by id, ErrAuthorNotFound when missing.
func (r *repository) GetAuthor(ctx context.Context, authorID int64) (*domain.User, error) {
	var author domain.User
	if err := r.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return &author, nil
}

func (r *repository) FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var followed []int64
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &followed).Error
	if err != nil {
		return nil, err
	}
	for _, id := range followed {
		out[id] = true
	}
	return out, nil
}

func (r *repository) ListFollowing(ctx context.Context, userID int64, offset, limit int) ([]domain.User, int64, error) {
	var (
		authors []domain.User
		total   int64
	)
	q := r.db.WithContext(ctx).Model(&domain.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Select("users.*").
		Order("follows.id ASC").
		Offset(offset).Limit(limit).
		Find(&authors).Error
	return authors, total, err
}

type authorRecipeRow struct {
	AuthorID    int64
	ID          int64
	Name        string
	Image       string
	CookingTime int
}

// RecentRecipes returns, per author, the newest recipes first. A nil perAuthor
// means no limit.
func (r *repository) RecentRecipes(ctx context.Context, authorIDs []int64, perAuthor *int) (map[int64][]domain.RecipeShort, error) {
	out := make(map[int64][]domain.RecipeShort, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []authorRecipeRow
	db := r.db.WithContext(ctx)
	if perAuthor == nil {
		err := db.Model(&domain.Recipe{}).
			Select("author_id, id, name, image, cooking_time").
			Where("author_id IN ?", authorIDs).
			Order("pub_date DESC, id DESC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
	} else {
		err := db.Raw(`
			SELECT author_id, id, name, image, cooking_time FROM (
				SELECT author_id, id, name, image, cooking_time, pub_date,
					ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY pub_date DESC, id DESC) AS rn
				FROM recipes
				WHERE author_id IN ?
			) ranked
			WHERE rn <= ?
			ORDER BY pub_date DESC, id DESC`, authorIDs, *perAuthor).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
	}

	for _, row := range rows {
		out[row.AuthorID] = append(out[row.AuthorID], domain.RecipeShort{
			ID:          row.ID,
			Name:        row.Name,
			Image:       row.Image,
			CookingTime: row.CookingTime,
		})
	}
	return out, nil
}

func (r *repository) RecipeCounts(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}
