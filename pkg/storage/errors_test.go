package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrInvalidConfig,
		ErrInvalidKey,
		ErrNotFound,
		ErrAccessDenied,
		ErrReadFailed,
		ErrWriteFailed,
		ErrDeleteFailed,
	}

	seen := make(map[string]bool)
	for _, err := range sentinels {
		msg := err.Error()
		require.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

// mockAPIError implements smithy.APIError for testing.
type mockAPIError struct {
	code    string
	message string
}

func (e *mockAPIError) ErrorCode() string             { return e.code }
func (e *mockAPIError) ErrorMessage() string          { return e.message }
func (e *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }
func (e *mockAPIError) Error() string                 { return fmt.Sprintf("%s: %s", e.code, e.message) }

func TestWrapS3Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"NoSuchKey code", &mockAPIError{code: "NoSuchKey"}, ErrNotFound},
		{"NotFound code", &mockAPIError{code: "NotFound"}, ErrNotFound},
		{"AccessDenied code", &mockAPIError{code: "AccessDenied"}, ErrAccessDenied},
		{"Forbidden code", &mockAPIError{code: "Forbidden"}, ErrAccessDenied},
		{"typed NoSuchKey", &types.NoSuchKey{}, ErrNotFound},
		{"unknown falls back", errors.New("network down"), ErrWriteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, wrapS3Error(tt.err, ErrWriteFailed), tt.want)
		})
	}
}
