package domain

import "time"

const (
	MinCookingTime = 1
	MaxCookingTime = 1440
	MinAmount      = 1
)

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"-" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	Image       string    `json:"image" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:cooking_time >= 1 AND cooking_time <= 1440"`
	PubDate     time.Time `json:"pub_date" gorm:"not null;autoCreateTime;index"`

	Author *User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string {
	return "recipes"
}

type IngredientInRecipe struct {
	ID           int64 `json:"id" gorm:"primaryKey"`
	IngredientID int64 `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_ingredient_recipe"`
	RecipeID     int64 `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_ingredient_recipe"`
	Amount       int   `json:"amount" gorm:"not null;check:amount >= 1"`

	Ingredient *Ingredient `json:"-" gorm:"foreignKey:IngredientID;references:ID;constraint:OnDelete:CASCADE"`
	Recipe     *Recipe     `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (IngredientInRecipe) TableName() string {
	return "ingredient_in_recipes"
}

type TagInRecipe struct {
	ID       int64 `json:"id" gorm:"primaryKey"`
	TagID    int64 `json:"tag_id" gorm:"not null;index"`
	RecipeID int64 `json:"recipe_id" gorm:"not null;index"`

	Tag    *Tag    `json:"-" gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (TagInRecipe) TableName() string {
	return "tag_in_recipes"
}

// RecipeShort is the compact projection returned by favorite, cart and subscription endpoints.
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}
