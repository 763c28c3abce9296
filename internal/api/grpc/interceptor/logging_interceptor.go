package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"libratrack-admin-backend/internal/logger"
)

// Logging returns a unary interceptor that logs each RPC with its status code
// and latency. Panics are turned into Internal errors.
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		started := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("RPC panicked", "method", info.FullMethod, "panic", r)
				err = status.Error(codes.Internal, "internal error")
			}
			code := status.Code(err)
			logger.Debug("RPC handled", "method", info.FullMethod, "code", code.String(), "duration_ms", time.Since(started).Milliseconds())
		}()
		return handler(ctx, req)
	}
}
