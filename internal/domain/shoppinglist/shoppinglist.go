// Package shoppinglist sums the ingredients of every recipe in a user's cart.
package shoppinglist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

// Item is one aggregated line of the list.
type Item struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Compute runs one grouped SUM over cart -> recipe ingredients -> ingredients.
// Items are ordered by name using byte order, then by unit.
func (s *Service) Compute(ctx context.Context, userID int64) ([]Item, error) {
	var items []Item
	err := s.db.WithContext(ctx).
		Table("shopping_cart_items AS cart").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(iir.amount) AS total_amount").
		Joins("JOIN ingredient_in_recipes AS iir ON iir.recipe_id = cart.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = iir.ingredient_id").
		Where("cart.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	// Database collations differ; byte order keeps the result stable everywhere.
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items, nil
}

// Render formats items as "{name} ({unit}) - {total}" lines.
func Render(items []Item) []byte {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", it.Name, it.MeasurementUnit, it.TotalAmount)
	}
	return []byte(b.String())
}

// Export computes and renders the list for userID and names the file after
// the user.
func (s *Service) Export(ctx context.Context, userID int64) (string, []byte, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Select("id", "username").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrUserNotFound
	}
	if err != nil {
		return "", nil, err
	}

	items, err := s.Compute(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	return user.Username + "_shopping_cart.txt", Render(items), nil
}
