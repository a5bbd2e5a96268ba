package recipe

import (
	"time"

	"foodgram/internal/domain"
)

type IngredientAmount struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount"`
}

// WriteRequest is the body of both create and update. An update replaces the
// whole ingredient and tag sets, so both are always sent in full.
type WriteRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"required"`
	Image       string             `json:"image" binding:"required"`
	CookingTime int                `json:"cooking_time"`
	Tags        []int64            `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"dive"`
}

// Filter narrows the recipe list. Slugs match any-of.
type Filter struct {
	AuthorID         *int64
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}

type IngredientView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// View is a recipe as seen by one viewer.
type View struct {
	ID               int64            `json:"id"`
	Tags             []domain.Tag     `json:"tags"`
	Author           domain.UserView  `json:"author"`
	Ingredients      []IngredientView `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	PubDate          time.Time        `json:"pub_date"`
	FavoritesCount   int64            `json:"favorites_count"`
}
