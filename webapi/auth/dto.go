package auth

import "github.com/kokifi/lottery/pkg/domain/user"

// LoginInput represents the request body for user authentication.
type LoginInput struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput represents the request body for user registration.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Session is returned by login and registration.
type Session struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}
