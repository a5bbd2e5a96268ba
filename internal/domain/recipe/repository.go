package recipe

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodgram/internal/domain"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// AuthorOf implements middleware.AuthorLookup.
func (r *Repository) AuthorOf(ctx context.Context, id int64) (int64, bool, error) {
	var rec domain.Recipe
	err := r.db.WithContext(ctx).Select("id", "author_id").First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.AuthorID, true, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Recipe, error) {
	var rec domain.Recipe
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// missing returns the ids from want that have no row in model's table.
func (r *Repository) missing(ctx context.Context, model interface{}, want []int64) ([]int64, error) {
	if len(want) == 0 {
		return nil, nil
	}
	var found []int64
	if err := r.db.WithContext(ctx).Model(model).Where("id IN ?", want).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	have := make(map[int64]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	var out []int64
	for _, id := range want {
		if !have[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *Repository) MissingIngredients(ctx context.Context, ids []int64) ([]int64, error) {
	return r.missing(ctx, &domain.Ingredient{}, ids)
}

func (r *Repository) MissingTags(ctx context.Context, ids []int64) ([]int64, error) {
	return r.missing(ctx, &domain.Tag{}, ids)
}

func (r *Repository) Create(ctx context.Context, rec *domain.Recipe) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// UpdateFields overwrites the editable columns; author and pub_date are kept.
func (r *Repository) UpdateFields(ctx context.Context, rec *domain.Recipe) error {
	res := r.db.WithContext(ctx).Model(&domain.Recipe{ID: rec.ID}).
		Select("name", "text", "image", "cooking_time").
		Updates(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// ReplaceComponents deletes the recipe's ingredient and tag rows and inserts
// the given sets in their place.
func (r *Repository) ReplaceComponents(ctx context.Context, recipeID int64, ingredients []domain.IngredientInRecipe, tagIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&domain.IngredientInRecipe{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", recipeID).Delete(&domain.TagInRecipe{}).Error; err != nil {
		return err
	}

	if len(ingredients) > 0 {
		for i := range ingredients {
			ingredients[i].ID = 0
			ingredients[i].RecipeID = recipeID
		}
		if err := db.Create(&ingredients).Error; err != nil {
			return err
		}
	}
	if len(tagIDs) > 0 {
		rows := make([]domain.TagInRecipe, 0, len(tagIDs))
		for _, id := range tagIDs {
			rows = append(rows, domain.TagInRecipe{RecipeID: recipeID, TagID: id})
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the recipe with its join rows, favorites and cart items.
// Ingredients and tags are shared and stay.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	dependents := []interface{}{
		&domain.IngredientInRecipe{},
		&domain.TagInRecipe{},
		&domain.Favorite{},
		&domain.ShoppingCartItem{},
	}
	for _, model := range dependents {
		if err := db.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	res := db.Delete(&domain.Recipe{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// List returns one page of recipes matching f, newest first. viewerID is
// needed for the favorite / cart filters; 0 means anonymous.
func (r *Repository) List(ctx context.Context, f Filter, viewerID int64, offset, limit int) ([]domain.Recipe, int64, error) {
	if (f.IsFavorited || f.IsInShoppingCart) && viewerID == 0 {
		return nil, 0, nil
	}

	db := r.db.WithContext(ctx)
	q := db.Model(&domain.Recipe{})
	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := db.Table("tag_in_recipes").
			Select("tag_in_recipes.recipe_id").
			Joins("JOIN tags ON tags.id = tag_in_recipes.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.IsFavorited {
		q = q.Where("recipes.id IN (?)", markedBy(db, domain.MarkFavorite, viewerID))
	}
	if f.IsInShoppingCart {
		q = q.Where("recipes.id IN (?)", markedBy(db, domain.MarkShoppingCart, viewerID))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var recipes []domain.Recipe
	err := q.Order("recipes.pub_date DESC, recipes.id DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	return recipes, total, err
}

func markedBy(db *gorm.DB, kind domain.MarkKind, userID int64) *gorm.DB {
	return db.Table(kind.Table()).Select("recipe_id").Where("user_id = ?", userID)
}

// IngredientsFor loads the ingredient lines of each recipe, ordered by name.
func (r *Repository) IngredientsFor(ctx context.Context, recipeIDs []int64) (map[int64][]IngredientView, error) {
	out := make(map[int64][]IngredientView, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		RecipeID        int64
		ID              int64
		Name            string
		MeasurementUnit string
		Amount          int
	}
	err := r.db.WithContext(ctx).Table("ingredient_in_recipes").
		Select("ingredient_in_recipes.recipe_id, ingredients.id, ingredients.name, ingredients.measurement_unit, ingredient_in_recipes.amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_in_recipes.ingredient_id").
		Where("ingredient_in_recipes.recipe_id IN ?", recipeIDs).
		Order("ingredients.name ASC, ingredients.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], IngredientView{
			ID:              row.ID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	return out, nil
}

func (r *Repository) TagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]domain.Tag, error) {
	out := make(map[int64][]domain.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		RecipeID int64
		domain.Tag
	}
	err := r.db.WithContext(ctx).Table("tag_in_recipes").
		Select("tag_in_recipes.recipe_id, tags.id, tags.name, tags.color, tags.slug").
		Joins("JOIN tags ON tags.id = tag_in_recipes.tag_id").
		Where("tag_in_recipes.recipe_id IN ?", recipeIDs).
		Order("tags.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], row.Tag)
	}
	return out, nil
}

func (r *Repository) Authors(ctx context.Context, ids []int64) (map[int64]domain.User, error) {
	out := make(map[int64]domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *Repository) FollowedAmong(ctx context.Context, viewerID int64, authorIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if viewerID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("user_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &ids).Error
	for _, id := range ids {
		out[id] = true
	}
	return out, err
}

// MarkedAmong reports which recipes viewerID has marked with kind.
func (r *Repository) MarkedAmong(ctx context.Context, kind domain.MarkKind, viewerID int64, recipeIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if viewerID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Table(kind.Table()).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	for _, id := range ids {
		out[id] = true
	}
	return out, err
}

func (r *Repository) FavoriteCounts(ctx context.Context, recipeIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64)
	if len(recipeIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		RecipeID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Select("recipe_id, COUNT(*) AS total").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&rows).Error
	for _, row := range rows {
		out[row.RecipeID] = row.Total
	}
	return out, err
}
