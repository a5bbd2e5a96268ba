package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/validator"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")
)

// IngredientRow and TagRow are the import shapes (CSV columns / JSON fields).
type IngredientRow struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

type TagRow struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"omitempty,hexcolor6"`
	Slug  string `json:"slug" validate:"omitempty,max=200,slug"`
}

// collect validates row and files its messages under "[i].<field>".
func collect(fields map[string]string, i int, row interface{}) {
	for name, msg := range validator.Validate(row) {
		fields[fmt.Sprintf("[%d].%s", i, name)] = msg
	}
}

type ImportResult struct {
	Received int   `json:"received"`
	Inserted int64 `json:"inserted"`
}

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	items, err := s.repo.ListIngredients(ctx, namePrefix)
	if items == nil {
		items = []domain.Ingredient{}
	}
	return items, err
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing, err := s.repo.GetIngredient(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIngredientNotFound
	}
	return ing, err
}

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.repo.ListTags(ctx)
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, err
}

func (s *Service) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.repo.GetTag(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	return tag, err
}

// ImportIngredients validates every row first and then inserts the new ones.
// Re-importing the same data is a no-op.
func (s *Service) ImportIngredients(ctx context.Context, rows []IngredientRow) (ImportResult, error) {
	fields := map[string]string{}
	seen := make(map[IngredientRow]bool, len(rows))
	batch := make([]domain.Ingredient, 0, len(rows))
	for i, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		row.MeasurementUnit = strings.TrimSpace(row.MeasurementUnit)
		collect(fields, i, row)
		if seen[row] {
			continue
		}
		seen[row] = true
		batch = append(batch, domain.Ingredient{Name: row.Name, MeasurementUnit: row.MeasurementUnit})
	}
	if len(fields) > 0 {
		return ImportResult{}, &validator.ValidationError{Fields: fields}
	}

	inserted, err := s.repo.InsertIngredients(ctx, batch)
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Received: len(rows), Inserted: inserted}, nil
}

func (s *Service) ImportTags(ctx context.Context, rows []TagRow) (ImportResult, error) {
	fields := map[string]string{}
	batch := make([]domain.Tag, 0, len(rows))
	for i, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		row.Color = strings.TrimSpace(row.Color)
		row.Slug = strings.TrimSpace(row.Slug)
		collect(fields, i, row)

		tag := domain.Tag{Name: row.Name}
		if row.Color != "" {
			color := row.Color
			tag.Color = &color
		}
		if row.Slug != "" {
			slug := row.Slug
			tag.Slug = &slug
		}
		batch = append(batch, tag)
	}
	if len(fields) > 0 {
		return ImportResult{}, &validator.ValidationError{Fields: fields}
	}

	inserted, err := s.repo.InsertTags(ctx, batch)
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Received: len(rows), Inserted: inserted}, nil
}
