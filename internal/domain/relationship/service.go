package relationship

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/pagination"
)

// Subscription is a followed author with their newest recipes.
type Subscription struct {
	domain.UserView
	Recipes      []domain.RecipeShort `json:"recipes"`
	RecipesCount int64                `json:"recipes_count"`
}

// Service handles follow logic
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Subscribe follows authorID. Returns ErrCannotSubscribeSelf, ErrAuthorNotFound
// or ErrAlreadySubscribed.
func (s *Service) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit *int) (*Subscription, error) {
	if userID == authorID {
		return nil, ErrCannotSubscribeSelf
	}
	author, err := s.repo.Follow(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	subs, err := s.decorate(ctx, []domain.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

// Unsubscribe removes the follow. Returns ErrNotSubscribed if there was none.
func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return ErrCannotSubscribeSelf
	}
	return s.repo.Unfollow(ctx, userID, authorID)
}

// FollowedAmong reports which of authorIDs userID follows.
func (s *Service) FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	return s.repo.FollowedAmong(ctx, userID, authorIDs)
}

// ListSubscriptions returns the authors userID follows, paginated, each with
// up to recipesLimit newest recipes (all when nil) and a total recipe count.
func (s *Service) ListSubscriptions(ctx context.Context, userID int64, p pagination.Params, recipesLimit *int) (pagination.Result[Subscription], error) {
	authors, total, err := s.repo.ListFollowing(ctx, userID, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Result[Subscription]{}, err
	}
	subs, err := s.decorate(ctx, authors, recipesLimit)
	if err != nil {
		return pagination.Result[Subscription]{}, err
	}
	return pagination.NewResult(subs, total, p), nil
}

func (s *Service) decorate(ctx context.Context, authors []domain.User, recipesLimit *int) ([]Subscription, error) {
	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	recipes, err := s.repo.RecentRecipes(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.RecipeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Subscription, 0, len(authors))
	for i := range authors {
		list := recipes[authors[i].ID]
		if list == nil {
			list = []domain.RecipeShort{}
		}
		out = append(out, Subscription{
			UserView:     domain.NewUserView(&authors[i], true),
			Recipes:      list,
			RecipesCount: counts[authors[i].ID],
		})
	}
	return out, nil
}
