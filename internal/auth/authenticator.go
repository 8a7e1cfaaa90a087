package auth

import (
	"context"

	"github.com/mmynk/todolist/internal/models"
)

// Authenticator defines the account operations: sign-up and login.
// Implementations validate input locally before touching the store.
type Authenticator interface {
	// SignUp validates the form, checks the username is free and inserts one user.
	SignUp(ctx context.Context, form SignUpForm) (*models.User, error)

	// Login returns the user whose username and password both match.
	// A wrong username and a wrong password are indistinguishable: both yield
	// ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// Grant is the outcome of a successful sign-up or login as seen by a client.
// Token is empty when the account service is called in-process.
type Grant struct {
	User  *models.User
	Token string
}
