// Command seed fills a development database with demo users, catalog
// entries, recipes and interactions. Existing rows are wiped first.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/domain/auth"
	"foodgram/internal/domain/catalog"
	"foodgram/internal/domain/interaction"
	"foodgram/internal/domain/recipe"
	"foodgram/internal/domain/relationship"
	"foodgram/internal/logging"
)

const demoPassword = "foodgram123"

var ingredients = []catalog.IngredientRow{
	{Name: "butter", MeasurementUnit: "g"},
	{Name: "eggs", MeasurementUnit: "pcs"},
	{Name: "flour", MeasurementUnit: "g"},
	{Name: "milk", MeasurementUnit: "ml"},
	{Name: "salt", MeasurementUnit: "pinch"},
	{Name: "sugar", MeasurementUnit: "g"},
	{Name: "tomatoes", MeasurementUnit: "pcs"},
}

var tags = []catalog.TagRow{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger().WithError(err).Fatal("invalid configuration")
	}
	logging.Init(cfg.LogLevel)
	log := logging.Logger()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	ctx := context.Background()
	if err := seed(ctx, db, cfg); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.Info("seed completed")
	log.Infof("admin: admin@foodgram.local / %s", demoPassword)
	log.Infof("cooks: cook1@foodgram.local ... cook3@foodgram.local / %s", demoPassword)
}

func seed(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	log := logging.Logger()

	log.Info("cleaning old data")
	models := domain.Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
			return fmt.Errorf("clean %T: %w", models[i], err)
		}
	}

	log.Info("creating users")
	users := auth.NewRepository(db)
	admin, err := createUser(ctx, users, "admin", domain.RoleAdmin)
	if err != nil {
		return err
	}
	cooks := make([]*domain.User, 0, 3)
	for i := 1; i <= 3; i++ {
		u, err := createUser(ctx, users, fmt.Sprintf("cook%d", i), domain.RoleUser)
		if err != nil {
			return err
		}
		cooks = append(cooks, u)
	}

	log.Info("importing catalog")
	catalogSvc := catalog.NewService(catalog.NewRepository(db))
	if _, err := catalogSvc.ImportIngredients(ctx, ingredients); err != nil {
		return err
	}
	if _, err := catalogSvc.ImportTags(ctx, tags); err != nil {
		return err
	}
	ingredientList, err := catalogSvc.ListIngredients(ctx, "")
	if err != nil {
		return err
	}
	tagList, err := catalogSvc.ListTags(ctx)
	if err != nil {
		return err
	}

	log.Info("creating recipes")
	recipes := recipe.NewService(recipe.NewRepository(db), cfg.IngredientMaxAmount)
	var recipeIDs []int64
	for i, cook := range cooks {
		for n := 0; n < 3; n++ {
			req := &recipe.WriteRequest{
				Name:        fmt.Sprintf("%s's dish #%d", cook.Username, n+1),
				Text:        "Combine everything, then cook until done.",
				Image:       "data:image/png;base64,iVBORw0KGgo=",
				CookingTime: 10 + rand.Intn(50),
				Tags:        []int64{tagList[(i+n)%len(tagList)].ID},
			}
			for _, k := range rand.Perm(len(ingredientList))[:3] {
				req.Ingredients = append(req.Ingredients, recipe.IngredientAmount{
					ID:     ingredientList[k].ID,
					Amount: 1 + rand.Intn(cfg.IngredientMaxAmount),
				})
			}
			view, err := recipes.Create(ctx, cook.ID, req)
			if err != nil {
				return fmt.Errorf("create recipe: %w", err)
			}
			recipeIDs = append(recipeIDs, view.ID)
		}
	}

	log.Info("creating follows, favorites and carts")
	follows := relationship.NewService(relationship.NewRepository(db))
	marks := interaction.NewStore(db)
	for i, cook := range cooks {
		next := cooks[(i+1)%len(cooks)]
		if _, err := follows.Subscribe(ctx, cook.ID, next.ID, nil); err != nil {
			return err
		}
		for _, kind := range []domain.MarkKind{domain.MarkFavorite, domain.MarkShoppingCart} {
			id := recipeIDs[rand.Intn(len(recipeIDs))]
			if _, err := marks.Add(ctx, kind, cook.ID, id); err != nil && !errors.Is(err, interaction.ErrAlreadyExists) {
				return err
			}
		}
	}
	if _, err := follows.Subscribe(ctx, admin.ID, cooks[0].ID, nil); err != nil {
		return err
	}
	return nil
}

func createUser(ctx context.Context, users *auth.Repository, username string, role domain.UserRole) (*domain.User, error) {
	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        username + "@foodgram.local",
		Username:     username,
		FirstName:    username,
		LastName:     "Demo",
		PasswordHash: hash,
		Role:         role,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create %s: %w", username, err)
	}
	return u, nil
}
