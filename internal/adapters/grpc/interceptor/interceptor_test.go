package interceptor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/healthoffice.station.v1.StationAssignmentService/Assign"}

func captureRequestID(t *testing.T, ctx context.Context) string {
	t.Helper()

	var got string
	_, err := RequestID()(ctx, nil, testInfo, func(ctx context.Context, req any) (any, error) {
		got = RequestIDFromContext(ctx)
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor returned error: %v", err)
	}
	return got
}

func TestRequestID_UsesIncomingValue(t *testing.T) {
	t.Parallel()

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDKey, "req-123"))
	if got := captureRequestID(t, ctx); got != "req-123" {
		t.Fatalf("expected incoming request id, got %q", got)
	}
}

func TestRequestID_GeneratesWhenMissingOrTooLong(t *testing.T) {
	t.Parallel()

	generated := captureRequestID(t, context.Background())
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("expected generated uuid, got %q", generated)
	}

	long := strings.Repeat("x", requestIDMaxLen+1)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDKey, long))
	replaced := captureRequestID(t, ctx)
	if replaced == long {
		t.Fatalf("oversized request id must be replaced")
	}
	if _, err := uuid.Parse(replaced); err != nil {
		t.Fatalf("expected generated uuid, got %q", replaced)
	}
}

func TestLogging_LevelsByCode(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logging := Logging(zap.New(core))
	ctx := context.WithValue(context.Background(), requestIDContextKey{}, "req-1")

	calls := []error{
		nil,
		status.Error(codes.FailedPrecondition, "station already occupied"),
		status.Error(codes.Internal, "internal error"),
		errors.New("plain"),
	}
	for _, callErr := range calls {
		callErr := callErr
		_, err := logging(ctx, nil, testInfo, func(ctx context.Context, req any) (any, error) {
			return nil, callErr
		})
		if err != callErr {
			t.Fatalf("interceptor must return handler error unchanged")
		}
	}

	entries := logs.AllUntimed()
	if len(entries) != 4 {
		t.Fatalf("expected four log entries, got %d", len(entries))
	}
	wantLevels := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel, zapcore.ErrorLevel}
	for i, entry := range entries {
		if entry.Level != wantLevels[i] {
			t.Fatalf("entry %d: level %v, want %v", i, entry.Level, wantLevels[i])
		}
		fields := entry.ContextMap()
		if fields["request_id"] != "req-1" || fields["method"] != testInfo.FullMethod {
			t.Fatalf("entry %d: unexpected fields %v", i, fields)
		}
	}
	if entries[1].ContextMap()["code"] != "FailedPrecondition" {
		t.Fatalf("unexpected code field %v", entries[1].ContextMap()["code"])
	}
}
