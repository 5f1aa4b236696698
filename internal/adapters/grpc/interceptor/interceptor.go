package interceptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDKey は request id を受け渡すメタデータのキーです。
const RequestIDKey = "x-request-id"

// requestIDMaxLen は外部から受け取る request id の最大長です。超える場合は採番し直します。
const requestIDMaxLen = 64

type requestIDContextKey struct{}

// RequestIDFromContext はコンテキストに格納された request id を返します。
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return rid
	}
	return ""
}

// RequestID は受信メタデータの x-request-id を引き継ぎ、なければ UUID を採番します。
// 値はコンテキストとレスポンスヘッダーに設定します。
func RequestID() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		rid := incomingRequestID(ctx)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, rid))

		return handler(context.WithValue(ctx, requestIDContextKey{}, rid), req)
	}
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(RequestIDKey)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Logging は unary 呼び出しの結果を zap で記録します。
// サーバー側の障害は Error、クライアント起因のエラーは Warn、成功は Info で出力します。
func Logging(logger *zap.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("latency", time.Since(start)),
		}
		if rid := RequestIDFromContext(ctx); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if err != nil {
			fields = append(fields, zap.String("error", status.Convert(err).Message()))
		}

		switch {
		case isServerFault(code):
			logger.Error("grpc request failed", fields...)
		case err != nil:
			logger.Warn("grpc client error", fields...)
		default:
			logger.Info("grpc request completed", fields...)
		}

		return resp, err
	}
}

func isServerFault(code codes.Code) bool {
	switch code {
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
		return true
	default:
		return false
	}
}
