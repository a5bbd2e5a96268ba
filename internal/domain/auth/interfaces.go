package auth

import (
	"context"

	"foodgram/internal/domain"
)

// UserRepository lists only the methods the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64) (UserStats, error)
}

// SubscriptionChecker answers "which of these authors does the viewer follow".
type SubscriptionChecker interface {
	FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}
