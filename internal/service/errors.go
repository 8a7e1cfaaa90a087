package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/storage"
	"github.com/mmynk/todolist/internal/tasks"
	"github.com/mmynk/todolist/pkg/api"
)

// toConnectError maps a domain error to a Connect error code.
func toConnectError(err error) *connect.Error {
	var ve *auth.ValidationError
	switch {
	case errors.As(err, &ve):
		cerr := connect.NewError(connect.CodeInvalidArgument, errors.New(ve.Message))
		cerr.Meta().Set(api.MetaValidationField, ve.Field)
		cerr.Meta().Set(api.MetaValidationReason, auth.ReasonName(ve.Reason))
		return cerr
	case errors.Is(err, auth.ErrDuplicateUsername):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, tasks.ErrUserNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, tasks.ErrAmbiguousUser):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case storage.IsRemote(err):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
