package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/internal/storage"
)

const (
	minPasswordLength = 6
	passwordDigits    = "0123456789"
	passwordSymbols   = "!@#$%^&*"

	passwordPolicyMessage = "Password must be at least 6 characters long and contain at least one number and one special character"
)

// UserStorage defines the user persistence operations the authenticator needs.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUsersByUsername(ctx context.Context, username string) ([]*models.User, error)
	FindUsersByCredentials(ctx context.Context, username, password string) ([]*models.User, error)
}

// SignUpForm carries every field of the sign-up screen.
type SignUpForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Phone           string
	Address         string
	AcceptedTerms   bool
}

// Validate runs the local checks in order: required fields, password policy,
// confirmation, terms. The first failure is returned.
func (f SignUpForm) Validate() error {
	switch {
	case f.Username == "":
		return required("username", "Username is required")
	case f.Email == "":
		return required("email", "Email is required")
	case f.Password == "":
		return &ValidationError{Field: "password", Message: "Password is required", Reason: ErrWeakPassword}
	case f.ConfirmPassword == "":
		return required("confirm_password", "Please confirm your password")
	case f.Name == "":
		return required("name", "Name is required")
	case f.Phone == "":
		return required("phone", "Phone number is required")
	case f.Address == "":
		return required("address", "Address is required")
	}

	if err := ValidatePassword(f.Password); err != nil {
		return err
	}
	if f.Password != f.ConfirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "Passwords do not match", Reason: ErrPasswordMismatch}
	}
	if !f.AcceptedTerms {
		return &ValidationError{Field: "terms", Message: "Please accept the terms and conditions", Reason: ErrTermsNotAccepted}
	}
	return nil
}

// ValidatePassword checks the password policy: at least 6 characters, one
// digit and one of !@#$%^&*.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required", Reason: ErrWeakPassword}
	}
	if utf8.RuneCountInString(password) < minPasswordLength ||
		!strings.ContainsAny(password, passwordDigits) ||
		!strings.ContainsAny(password, passwordSymbols) {
		return &ValidationError{Field: "password", Message: passwordPolicyMessage, Reason: ErrWeakPassword}
	}
	return nil
}

// Option configures a PasswordAuthenticator.
type Option func(*PasswordAuthenticator)

// WithPasswordHashing stores bcrypt hashes instead of the password as entered.
// Login then looks users up by username and compares hashes.
func WithPasswordHashing() Option {
	return func(a *PasswordAuthenticator) {
		a.hashPasswords = true
	}
}

// WithLogger sets the logger used for sign-up and login events.
func WithLogger(logger *slog.Logger) Option {
	return func(a *PasswordAuthenticator) {
		a.logger = logger
	}
}

// PasswordAuthenticator implements Authenticator with username/password records.
type PasswordAuthenticator struct {
	storage       UserStorage
	hashPasswords bool
	logger        *slog.Logger
}

var _ Authenticator = (*PasswordAuthenticator)(nil)

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage, opts ...Option) *PasswordAuthenticator {
	a := &PasswordAuthenticator{
		storage: storage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SignUp validates the form, rejects a taken username and inserts the user.
func (a *PasswordAuthenticator) SignUp(ctx context.Context, form SignUpForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	existing, err := a.storage.FindUsersByUsername(ctx, form.Username)
	if err != nil {
		a.logger.Error("Username check failed", "username", form.Username, "error", err)
		return nil, storage.Remote("check username", err)
	}
	if len(existing) > 0 {
		return nil, ErrDuplicateUsername
	}

	password := form.Password
	if a.hashPasswords {
		hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		password = string(hashed)
	}

	user := models.NewUser(form.Username, form.Email, password, form.Name, form.Phone, form.Address)
	if err := a.storage.CreateUser(ctx, user); err != nil {
		a.logger.Error("Create user failed", "username", form.Username, "error", err)
		return nil, storage.Remote("create user", err)
	}

	a.logger.Info("User signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login returns the first user matching username and password.
func (a *PasswordAuthenticator) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" {
		return nil, required("username", "Username is required")
	}
	if password == "" {
		return nil, required("password", "Password is required")
	}

	if a.hashPasswords {
		return a.loginHashed(ctx, username, password)
	}

	users, err := a.storage.FindUsersByCredentials(ctx, username, password)
	if err != nil {
		a.logger.Error("Credential lookup failed", "username", username, "error", err)
		return nil, storage.Remote("find user", err)
	}
	if len(users) == 0 {
		a.logger.Warn("Login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}

	a.logger.Info("User logged in", "user_id", users[0].ID, "username", username)
	return users[0], nil
}

func (a *PasswordAuthenticator) loginHashed(ctx context.Context, username, password string) (*models.User, error) {
	users, err := a.storage.FindUsersByUsername(ctx, username)
	if err != nil {
		a.logger.Error("Credential lookup failed", "username", username, "error", err)
		return nil, storage.Remote("find user", err)
	}

	for _, user := range users {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil {
			a.logger.Info("User logged in", "user_id", user.ID, "username", username)
			return user, nil
		}
	}

	a.logger.Warn("Login rejected", "username", username)
	return nil, ErrInvalidCredentials
}
