package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/todolist/internal/auth"
	"github.com/mmynk/todolist/internal/models"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc", "abc", nil},
		{"", "", auth.ErrMissingToken},
		{"Basic abc", "", auth.ErrInvalidToken},
		{"Bearer", "", auth.ErrInvalidToken},
		{"Bearer a b", "", auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if tt.wantErr == nil {
			assert.NoError(t, err, tt.header)
		} else {
			assert.ErrorIs(t, err, tt.wantErr, tt.header)
		}
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func authedRequest(t *testing.T, jwtManager *auth.JWTManager) *connect.Request[struct{}] {
	t.Helper()
	token, err := jwtManager.Generate(&models.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	req := connect.NewRequest(&struct{}{})
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	var username, userID string
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		username, userID = GetUsername(ctx), GetUserID(ctx)
		return nil, nil
	}
	handler := RequireAuth(jwtManager)(next)

	_, err := handler(context.Background(), connect.NewRequest(&struct{}{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = handler(context.Background(), authedRequest(t, jwtManager))
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "u1", userID)
}

func TestLoggingInterceptorRecordsCaller(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	fail := errors.New("item cannot be empty")
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fail)
	}
	handler := RequireAuth(jwtManager)(LoggingInterceptor(logger)(next))

	_, err := handler(context.Background(), authedRequest(t, jwtManager))
	require.Error(t, err)

	line := buf.String()
	assert.Contains(t, line, "level=WARN")
	assert.Contains(t, line, `msg="RPC failed"`)
	assert.Contains(t, line, "username=alice")
	assert.Contains(t, line, "user_id=u1")
	assert.Contains(t, line, "code=invalid_argument")
}

func TestLoggingInterceptorLevels(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, levelFor(connect.CodeUnauthenticated))
	assert.Equal(t, slog.LevelError, levelFor(connect.CodeUnavailable))
	assert.Equal(t, slog.LevelError, levelFor(connect.CodeUnknown))
}

func TestMetricsInterceptorCountsCodes(t *testing.T) {
	failing := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("nope"))
	}
	handler := MetricsInterceptor()(failing)
	req := connect.NewRequest(&struct{}{})
	procedure := req.Spec().Procedure

	before := testutil.ToFloat64(rpcRequestsTotal.WithLabelValues(procedure, connect.CodeNotFound.String()))
	_, _ = handler(context.Background(), req)
	_, _ = handler(context.Background(), req)
	after := testutil.ToFloat64(rpcRequestsTotal.WithLabelValues(procedure, connect.CodeNotFound.String()))

	assert.Equal(t, float64(2), after-before)
}
