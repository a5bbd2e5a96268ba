package domain

import "time"

// MarkKind tags the two "user marked recipe" relations. Both share one row
// shape and one uniqueness rule, so stores work on the kind rather than the type.
type MarkKind string

const (
	MarkFavorite     MarkKind = "favorite"
	MarkShoppingCart MarkKind = "shopping_cart"
)

func (k MarkKind) Valid() bool {
	return k == MarkFavorite || k == MarkShoppingCart
}

// Table returns the backing table for the kind.
func (k MarkKind) Table() string {
	switch k {
	case MarkShoppingCart:
		return ShoppingCartItem{}.TableName()
	default:
		return Favorite{}.TableName()
	}
}

// Model returns an empty row of the kind, usable with gorm Model/Delete.
func (k MarkKind) Model() interface{} {
	if k == MarkShoppingCart {
		return &ShoppingCartItem{}
	}
	return &Favorite{}
}

// NewRow builds an insertable row of the kind.
func (k MarkKind) NewRow(userID, recipeID int64) interface{} {
	m := Mark{UserID: userID, RecipeID: recipeID}
	if k == MarkShoppingCart {
		return &ShoppingCartItem{Mark: m}
	}
	return &Favorite{Mark: m}
}

// Mark holds the columns shared by Favorite and ShoppingCartItem. The composite
// index id yields a per-table index name (idx_<table>_user_recipe).
type Mark struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index:,unique,composite:user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;index:,unique,composite:user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type Favorite struct {
	Mark

	User   *User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type ShoppingCartItem struct {
	Mark

	User   *User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}

// Models lists every persisted entity in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Follow{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&IngredientInRecipe{},
		&TagInRecipe{},
		&Favorite{},
		&ShoppingCartItem{},
	}
}
