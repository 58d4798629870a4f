package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	base := New(CodeProgressForbidden, "actor lacks capability")
	wrapped := fmt.Errorf("request transition: %w", base)

	if !errors.Is(wrapped, New(CodeProgressForbidden, "other message")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if errors.Is(wrapped, New(CodeProgressStaleState, "actor lacks capability")) {
		t.Fatal("expected errors.Is to reject different code")
	}
}

func TestGetCode(t *testing.T) {
	err := Wrap(CodeProgressStaleState, "state changed underneath", errors.New("row conflict"))
	if got := GetCode(fmt.Errorf("apply: %w", err)); got != CodeProgressStaleState {
		t.Fatalf("code = %q, want %q", got, CodeProgressStaleState)
	}
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %q, want %q", got, CodeUnknown)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	cases := []struct {
		code Code
		want codes.Code
	}{
		{CodeProgressInvalidRepoRef, codes.InvalidArgument},
		{CodeProgressInvalidStatus, codes.InvalidArgument},
		{CodeProgressIllegalTransition, codes.FailedPrecondition},
		{CodeProgressRepoRequired, codes.FailedPrecondition},
		{CodeProgressForbidden, codes.PermissionDenied},
		{CodeProgressStaleState, codes.Aborted},
		{CodeNotFound, codes.NotFound},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range cases {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("GRPCCode(%s) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestHandleErrorFormatsLocalizedMessage(t *testing.T) {
	err := WithMetadata(CodeProgressIllegalTransition, "illegal transition", map[string]string{
		"FromStatus": "STARTED",
		"ToStatus":   "NO_RESPONSE",
	})

	st, ok := status.FromError(HandleError(err, ""))
	if !ok {
		t.Fatal("expected gRPC status")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.FailedPrecondition)
	}
	if st.Message() != "illegal transition" {
		t.Fatalf("status message = %q", st.Message())
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	st, ok := status.FromError(HandleError(errors.New("boom"), "en-US"))
	if !ok {
		t.Fatal("expected gRPC status")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.Internal)
	}
}
