package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor logs one line per RPC with the caller and the outcome.
// Chain it after RequireAuth so the caller is known.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("username", GetUsername(ctx)),
				slog.String("user_id", GetUserID(ctx)),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			level, msg := slog.LevelInfo, "RPC ok"
			if err != nil {
				code := connect.CodeOf(err)
				attrs = append(attrs, slog.String("code", code.String()), slog.Any("error", err))
				level, msg = levelFor(code), "RPC failed"
			}
			logger.LogAttrs(ctx, level, msg, attrs...)

			return resp, err
		}
	}
}

// levelFor logs caller mistakes as warnings and server faults as errors.
func levelFor(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument,
		connect.CodeAlreadyExists,
		connect.CodeNotFound,
		connect.CodeFailedPrecondition,
		connect.CodeUnauthenticated:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
