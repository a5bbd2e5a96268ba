package recipe

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/validator"
)

type Service struct {
	repo      *Repository
	maxAmount int
}

// NewService builds the recipe service. maxAmount caps a single ingredient
// amount; zero or less disables the cap.
func NewService(repo *Repository, maxAmount int) *Service {
	return &Service{repo: repo, maxAmount: maxAmount}
}

// AuthorOf exposes the ownership lookup used by the permission middleware.
func (s *Service) AuthorOf(ctx context.Context, id int64) (int64, bool, error) {
	return s.repo.AuthorOf(ctx, id)
}

// validate checks the rules that need no storage lookups.
func (s *Service) validate(req *WriteRequest) map[string]string {
	fields := map[string]string{}

	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "is required"
	}
	if req.CookingTime < domain.MinCookingTime || req.CookingTime > domain.MaxCookingTime {
		fields["cooking_time"] = fmt.Sprintf("must be between %d and %d", domain.MinCookingTime, domain.MaxCookingTime)
	}

	if len(req.Ingredients) == 0 {
		fields["ingredients"] = "must have at least 1 item(s)"
	}
	seenIngredient := make(map[int64]bool, len(req.Ingredients))
	for i, item := range req.Ingredients {
		if seenIngredient[item.ID] {
			fields["ingredients"] = "must not repeat an ingredient"
		}
		seenIngredient[item.ID] = true
		switch {
		case item.Amount < domain.MinAmount:
			fields[fmt.Sprintf("ingredients[%d].amount", i)] = fmt.Sprintf("must be greater than or equal to %d", domain.MinAmount)
		case s.maxAmount > 0 && item.Amount > s.maxAmount:
			fields[fmt.Sprintf("ingredients[%d].amount", i)] = fmt.Sprintf("must be less than or equal to %d", s.maxAmount)
		}
	}

	seenTag := make(map[int64]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTag[id] {
			fields["tags"] = "must not repeat a tag"
		}
		seenTag[id] = true
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// checkReferences reports ingredient and tag ids that do not exist.
func checkReferences(ctx context.Context, repo *Repository, req *WriteRequest) error {
	ingredientIDs := make([]int64, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, item.ID)
	}
	fields := map[string]string{}

	missing, err := repo.MissingIngredients(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		fields["ingredients"] = fmt.Sprintf("unknown ingredient id(s) %v", missing)
	}
	missing, err = repo.MissingTags(ctx, req.Tags)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		fields["tags"] = fmt.Sprintf("unknown tag id(s) %v", missing)
	}

	if len(fields) > 0 {
		return &validator.ValidationError{Fields: fields}
	}
	return nil
}

func components(req *WriteRequest) []domain.IngredientInRecipe {
	rows := make([]domain.IngredientInRecipe, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		rows = append(rows, domain.IngredientInRecipe{IngredientID: item.ID, Amount: item.Amount})
	}
	return rows
}

// Create validates req and stores the recipe with its ingredient and tag rows
// in one transaction.
func (s *Service) Create(ctx context.Context, authorID int64, req *WriteRequest) (*View, error) {
	if fields := s.validate(req); fields != nil {
		return nil, &validator.ValidationError{Fields: fields}
	}

	rec := &domain.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
	}
	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if err := checkReferences(ctx, r, req); err != nil {
			return err
		}
		if err := r.Create(ctx, rec); err != nil {
			return err
		}
		return r.ReplaceComponents(ctx, rec.ID, components(req), req.Tags)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, authorID, rec.ID)
}

// Update overwrites the recipe fields and replaces both component sets.
func (s *Service) Update(ctx context.Context, viewerID, id int64, req *WriteRequest) (*View, error) {
	if fields := s.validate(req); fields != nil {
		return nil, &validator.ValidationError{Fields: fields}
	}

	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		if err := checkReferences(ctx, r, req); err != nil {
			return err
		}
		rec := &domain.Recipe{
			ID:          id,
			Name:        strings.TrimSpace(req.Name),
			Text:        req.Text,
			Image:       req.Image,
			CookingTime: req.CookingTime,
		}
		if err := r.UpdateFields(ctx, rec); err != nil {
			return err
		}
		return r.ReplaceComponents(ctx, id, components(req), req.Tags)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, viewerID, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
}

// Get returns one recipe as seen by viewerID (0 for anonymous).
func (s *Service) Get(ctx context.Context, viewerID, id int64) (*View, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, viewerID, []domain.Recipe{*rec})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) List(ctx context.Context, viewerID int64, f Filter, p pagination.Params) (pagination.Result[View], error) {
	recipes, total, err := s.repo.List(ctx, f, viewerID, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Result[View]{}, err
	}
	views, err := s.views(ctx, viewerID, recipes)
	if err != nil {
		return pagination.Result[View]{}, err
	}
	return pagination.NewResult(views, total, p), nil
}

// views assembles the read model for a page of recipes with a fixed number
// of queries regardless of page size.
func (s *Service) views(ctx context.Context, viewerID int64, recipes []domain.Recipe) ([]View, error) {
	if len(recipes) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, rec := range recipes {
		ids = append(ids, rec.ID)
		authorIDs = append(authorIDs, rec.AuthorID)
	}

	ingredients, err := s.repo.IngredientsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	tags, err := s.repo.TagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.repo.Authors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	followed, err := s.repo.FollowedAmong(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}
	favorited, err := s.repo.MarkedAmong(ctx, domain.MarkFavorite, viewerID, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := s.repo.MarkedAmong(ctx, domain.MarkShoppingCart, viewerID, ids)
	if err != nil {
		return nil, err
	}
	favoriteCounts, err := s.repo.FavoriteCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]View, 0, len(recipes))
	for _, rec := range recipes {
		author := authors[rec.AuthorID]
		v := View{
			ID:               rec.ID,
			Tags:             tags[rec.ID],
			Author:           domain.NewUserView(&author, followed[rec.AuthorID]),
			Ingredients:      ingredients[rec.ID],
			IsFavorited:      favorited[rec.ID],
			IsInShoppingCart: inCart[rec.ID],
			Name:             rec.Name,
			Image:            rec.Image,
			Text:             rec.Text,
			CookingTime:      rec.CookingTime,
			PubDate:          rec.PubDate,
			FavoritesCount:   favoriteCounts[rec.ID],
		}
		if v.Tags == nil {
			v.Tags = []domain.Tag{}
		}
		if v.Ingredients == nil {
			v.Ingredients = []IngredientView{}
		}
		out = append(out, v)
	}
	return out, nil
}
