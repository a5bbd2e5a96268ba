package auth

import "foodgram/internal/domain"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
}

type UserStats struct {
	RecipesCount   int64 `json:"recipes_count"`
	FollowersCount int64 `json:"followers_count"`
}

// UserDetail is the single-user representation: the public view plus counters.
type UserDetail struct {
	domain.UserView
	UserStats
}
