package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/domain"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListIngredients returns ingredients whose name starts with prefix,
// case-insensitively, ordered by name.
func (r *Repository) ListIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&domain.Ingredient{})
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(prefix)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	var out []domain.Ingredient
	err := q.Order("name ASC, measurement_unit ASC").Find(&out).Error
	return out, err
}

func (r *Repository) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *Repository) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *Repository) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// InsertIngredients adds rows that are not present yet, matched on
// (name, measurement_unit), and returns how many were inserted.
func (r *Repository) InsertIngredients(ctx context.Context, rows []domain.Ingredient) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).
		CreateInBatches(rows, 500)
	return res.RowsAffected, res.Error
}

// InsertTags adds tags that do not collide with an existing name, color or slug.
func (r *Repository) InsertTags(ctx context.Context, rows []domain.Tag) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 500)
	return res.RowsAffected, res.Error
}
