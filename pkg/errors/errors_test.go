package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeNotFound, "snippet not found")
	if got := err.Error(); got != "[1003] snippet not found" {
		t.Errorf("Error() = %q, want %q", got, "[1003] snippet not found")
	}

	cause := stderrors.New("connection reset")
	wrapped := Wrap(ErrCodeStorage, "save snippet", cause)
	if got := wrapped.Error(); got != "[5000] save snippet: connection reset" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "业务错误", err: NewInvalidParamError("rating", "out of range"), want: ErrCodeInvalidParam},
		{name: "被 fmt 包装", err: fmt.Errorf("handler: %w", NewNotFoundError("snippet")), want: ErrCodeNotFound},
		{name: "普通错误", err: stderrors.New("boom"), want: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.want {
				t.Errorf("GetErrorCode() = %d, want %d", got, tt.want)
			}
			if tt.want != ErrCodeInternal && !IsErrorCode(tt.err, tt.want) {
				t.Errorf("IsErrorCode(%v, %d) = false, want true", tt.err, tt.want)
			}
		})
	}
}
