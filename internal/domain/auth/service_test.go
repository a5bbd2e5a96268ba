package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/pagination"
)

func init() {
	hashCost = bcrypt.MinCost
}

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) Stats(ctx context.Context, id int64) (UserStats, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(UserStats), args.Error(1)
}

type mockFollows struct {
	mock.Mock
}

func (m *mockFollows) FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	args := m.Called(ctx, userID, authorIDs)
	return args.Get(0).(map[int64]bool), args.Error(1)
}

// Mock JWT service
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Email:     "Chef@Example.com",
		Username:  "chef",
		FirstName: "Gordon",
		LastName:  "Ramsay",
		Password:  "supersecret",
	}
}

func TestService_Register_Success(t *testing.T) {
	users := new(mockUserRepo)
	users.On("ExistsByEmail", mock.Anything, "Chef@Example.com").Return(false, nil)
	users.On("ExistsByUsername", mock.Anything, "chef").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "chef@example.com" && u.Role == domain.RoleUser && u.PasswordHash != "supersecret"
	})).Return(nil)

	svc := NewService(users, nil, new(mockJWTService))
	user, err := svc.Register(context.Background(), validRegister())

	require.NoError(t, err)
	assert.Equal(t, "chef", user.Username)
	assert.NoError(t, CheckPassword("supersecret", user.PasswordHash))
	users.AssertExpectations(t)
}

func TestService_Register_Duplicates(t *testing.T) {
	t.Run("email", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(true, nil)

		_, err := NewService(users, nil, nil).Register(context.Background(), validRegister())
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("username", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
		users.On("ExistsByUsername", mock.Anything, "chef").Return(true, nil)

		_, err := NewService(users, nil, nil).Register(context.Background(), validRegister())
		assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
	})

	t.Run("race on insert", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
		users.On("ExistsByUsername", mock.Anything, mock.Anything).Return(false, nil)
		users.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := NewService(users, nil, nil).Register(context.Background(), validRegister())
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("race on insert lost to same username", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
		users.On("ExistsByUsername", mock.Anything, "chef").Return(false, nil).Once()
		users.On("ExistsByUsername", mock.Anything, "chef").Return(true, nil).Once()
		users.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := NewService(users, nil, nil).Register(context.Background(), validRegister())
		assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
		users.AssertExpectations(t)
	})
}

func TestService_Login(t *testing.T) {
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)
	stored := &domain.User{ID: 7, Email: "chef@example.com", PasswordHash: hash, Role: domain.RoleUser}

	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "chef@example.com").Return(stored, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
	jwtSvc := new(mockJWTService)
	jwtSvc.On("GenerateToken", int64(7), "user").Return("fake-jwt-token", nil)

	svc := NewService(users, nil, jwtSvc)

	token, err := svc.Login(context.Background(), LoginRequest{Email: "chef@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "fake-jwt-token", token)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "chef@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_GetUser_Subscribed(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2, Username: "author"}, nil)
	users.On("Stats", mock.Anything, int64(2)).Return(UserStats{RecipesCount: 3, FollowersCount: 1}, nil)
	follows := new(mockFollows)
	follows.On("FollowedAmong", mock.Anything, int64(1), []int64{2}).Return(map[int64]bool{2: true}, nil)

	svc := NewService(users, follows, nil)

	detail, err := svc.GetUser(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, detail.IsSubscribed)
	assert.Equal(t, int64(3), detail.RecipesCount)

	anon, err := svc.GetUser(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)
	follows.AssertNumberOfCalls(t, "FollowedAmong", 1)
}

func TestService_GetUser_NotFound(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := NewService(users, nil, nil).GetUser(context.Background(), 0, 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_ListUsers(t *testing.T) {
	users := new(mockUserRepo)
	users.On("List", mock.Anything, 2, 2).Return([]domain.User{{ID: 3}, {ID: 4}}, int64(5), nil)
	follows := new(mockFollows)
	follows.On("FollowedAmong", mock.Anything, int64(1), []int64{3, 4}).Return(map[int64]bool{4: true}, nil)

	result, err := NewService(users, follows, nil).ListUsers(context.Background(), 1, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Count)
	require.Len(t, result.Results, 2)
	assert.False(t, result.Results[0].IsSubscribed)
	assert.True(t, result.Results[1].IsSubscribed)
}

func TestService_SetPassword(t *testing.T) {
	hash, err := HashPassword("oldpassword")
	require.NoError(t, err)

	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, PasswordHash: hash}, nil)
	users.On("UpdatePassword", mock.Anything, int64(1), mock.AnythingOfType("string")).Return(nil)
	svc := NewService(users, nil, nil)

	err = svc.SetPassword(context.Background(), 1, SetPasswordRequest{CurrentPassword: "nope", NewPassword: "newpassword"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.SetPassword(context.Background(), 1, SetPasswordRequest{CurrentPassword: "oldpassword", NewPassword: "oldpassword"})
	assert.ErrorIs(t, err, ErrSamePassword)

	err = svc.SetPassword(context.Background(), 1, SetPasswordRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword"})
	require.NoError(t, err)
	users.AssertCalled(t, "UpdatePassword", mock.Anything, int64(1), mock.AnythingOfType("string"))
}

func TestService_DeleteUser(t *testing.T) {
	users := new(mockUserRepo)
	users.On("Delete", mock.Anything, int64(1)).Return(nil)
	users.On("Delete", mock.Anything, int64(2)).Return(gorm.ErrRecordNotFound)
	users.On("Delete", mock.Anything, int64(3)).Return(errors.New("db down"))
	svc := NewService(users, nil, nil)

	assert.NoError(t, svc.DeleteUser(context.Background(), 1))
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 2), ErrUserNotFound)
	assert.EqualError(t, svc.DeleteUser(context.Background(), 3), "db down")
}
