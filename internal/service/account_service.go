package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/pkg/api"
)

// AccountService implements the AccountService RPC interface.
type AccountService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// SignUp creates a new user account and returns a token for it.
func (s *AccountService) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("SignUp request", "username", req.Msg.Username)

	user, err := s.authenticator.SignUp(ctx, auth.SignUpForm{
		Username:        req.Msg.Username,
		Email:           req.Msg.Email,
		Password:        req.Msg.Password,
		ConfirmPassword: req.Msg.ConfirmPassword,
		Name:            req.Msg.Name,
		Phone:           req.Msg.Phone,
		Address:         req.Msg.Address,
		AcceptedTerms:   req.Msg.AcceptedTerms,
	})
	if err != nil {
		s.logger.Warn("SignUp failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}

	return s.grant(user)
}

// Login authenticates a user and returns a JWT token.
func (s *AccountService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("Login request", "username", req.Msg.Username)

	user, err := s.authenticator.Login(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}

	return s.grant(user)
}

func (s *AccountService) grant(user *models.User) (*connect.Response[api.AuthResponse], error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.AuthResponse{
		User: &api.User{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Name:      user.Name,
			Phone:     user.Phone,
			Address:   user.Address,
			CreatedAt: user.CreatedAt,
		},
		Token: token,
	}), nil
}
