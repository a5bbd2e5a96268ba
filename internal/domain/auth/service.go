package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/pagination"
)

// Service contains identity logic: registration, token issuance and user lookups.
type Service struct {
	users   UserRepository
	follows SubscriptionChecker
	jwt     jwtService
}

func NewService(users UserRepository, follows SubscriptionChecker, jwt jwtService) *Service {
	return &Service{users: users, follows: follows, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}
	exists, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameAlreadyExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     req.Username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if database.IsUniqueViolation(err) {
			return nil, s.conflictAfterRace(ctx, req)
		}
		return nil, err
	}
	return user, nil
}

// conflictAfterRace reports which unique field the winning registration took.
func (s *Service) conflictAfterRace(ctx context.Context, req RegisterRequest) error {
	if exists, err := s.users.ExistsByEmail(ctx, req.Email); err == nil && exists {
		return ErrEmailAlreadyExists
	}
	if exists, err := s.users.ExistsByUsername(ctx, req.Username); err == nil && exists {
		return ErrUsernameAlreadyExists
	}
	return ErrEmailAlreadyExists
}

// Login checks the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := CheckPassword(req.Password, user.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwt.GenerateToken(user.ID, string(user.Role))
}

// GetUser returns a user as seen by viewerID (0 for anonymous).
func (s *Service) GetUser(ctx context.Context, viewerID, id int64) (*UserDetail, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subscribed, err := s.subscribedTo(ctx, viewerID, []int64{user.ID})
	if err != nil {
		return nil, err
	}
	stats, err := s.users.Stats(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		UserView:  domain.NewUserView(user, subscribed[user.ID]),
		UserStats: stats,
	}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*UserDetail, error) {
	return s.GetUser(ctx, userID, userID)
}

func (s *Service) ListUsers(ctx context.Context, viewerID int64, p pagination.Params) (pagination.Result[domain.UserView], error) {
	users, total, err := s.users.List(ctx, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Result[domain.UserView]{}, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.subscribedTo(ctx, viewerID, ids)
	if err != nil {
		return pagination.Result[domain.UserView]{}, err
	}

	views := make([]domain.UserView, 0, len(users))
	for i := range users {
		views = append(views, domain.NewUserView(&users[i], subscribed[users[i].ID]))
	}
	return pagination.NewResult(views, total, p), nil
}

func (s *Service) SetPassword(ctx context.Context, userID int64, req SetPasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := CheckPassword(req.CurrentPassword, user.PasswordHash); err != nil {
		return ErrWrongPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrSamePassword
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *Service) subscribedTo(ctx context.Context, viewerID int64, authorIDs []int64) (map[int64]bool, error) {
	if viewerID == 0 || s.follows == nil || len(authorIDs) == 0 {
		return map[int64]bool{}, nil
	}
	return s.follows.FollowedAmong(ctx, viewerID, authorIDs)
}
