package errors_test

import (
	"fmt"
	"testing"

	"github.com/schubergphilis/lastpassreportingcli/internal/errors"
	"github.com/stretchr/testify/assert"
)

// TestUserErrorFormatting verifies UserError displays properly
func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Operation failed",
		Details:    "Connection timeout",
		Suggestion: "Check network connectivity",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "Operation failed")
	assert.Contains(t, errMsg, "Connection timeout")
	assert.Contains(t, errMsg, "Check network connectivity")
	assert.Contains(t, errMsg, "💡")
}

// TestUserErrorWithoutMessage verifies the wrapped error text is used
func TestUserErrorWithoutMessage(t *testing.T) {
	t.Parallel()

	base := fmt.Errorf("underlying failure")
	err := errors.UserError{Err: base}

	assert.Contains(t, err.Error(), "underlying failure")
}

// TestConfigErrorFormatting verifies ConfigError displays with context
func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "warning-whitelist",
		Value:      "abc",
		Message:    "Invalid secret id",
		Suggestion: "Secret ids are numeric and 18 to 19 characters long",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "warning-whitelist")
	assert.Contains(t, errMsg, "abc")
	assert.Contains(t, errMsg, "Invalid secret id")
	assert.Contains(t, errMsg, "18 to 19 characters")
}

// TestVaultErrorSuggestions verifies backend errors get actionable suggestions
func TestVaultErrorSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		errorMsg           string
		expectedSuggestion string
	}{
		{
			name:               "timeout",
			errorMsg:           "context deadline exceeded: timeout",
			expectedSuggestion: "timed out",
		},
		{
			name:               "connection_refused",
			errorMsg:           "dial tcp: connection refused",
			expectedSuggestion: "network connection",
		},
		{
			name:               "no_such_host",
			errorMsg:           "dial tcp: lookup lastpass.com: no such host",
			expectedSuggestion: "network connection",
		},
		{
			name:               "rate_limited",
			errorMsg:           "too many requests",
			expectedSuggestion: "throttling",
		},
		{
			name:               "untrusted_device",
			errorMsg:           "device is not trusted",
			expectedSuggestion: "account settings",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vaultErr := errors.VaultError("retrieval", fmt.Errorf("%s", tt.errorMsg))

			errMsg := vaultErr.Error()
			assert.Contains(t, errMsg, "Lastpass error during retrieval")
			assert.Contains(t, errMsg, tt.expectedSuggestion)
		})
	}
}

// TestVaultErrorWithoutSuggestion verifies unknown errors still carry context
func TestVaultErrorWithoutSuggestion(t *testing.T) {
	t.Parallel()

	vaultErr := errors.VaultError("retrieval", fmt.Errorf("mysterious failure"))

	errMsg := vaultErr.Error()
	assert.Contains(t, errMsg, "Lastpass error during retrieval")
	assert.NotContains(t, errMsg, "💡")
}

// TestSimplifyError verifies error simplification for common cases
func TestSimplifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		inputError    error
		expectedType  string
		expectedInMsg string
	}{
		{
			name:          "json_error",
			inputError:    fmt.Errorf("json: invalid character"),
			expectedType:  "ConfigError",
			expectedInMsg: "Invalid JSON",
		},
		{
			name:          "permission_denied",
			inputError:    fmt.Errorf("permission denied"),
			expectedType:  "UserError",
			expectedInMsg: "Permission denied",
		},
		{
			name:          "file_not_found",
			inputError:    fmt.Errorf("no such file or directory"),
			expectedType:  "UserError",
			expectedInMsg: "not found",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			simplified := errors.SimplifyError(tt.inputError)

			errMsg := simplified.Error()
			assert.Contains(t, errMsg, tt.expectedInMsg)

			switch tt.expectedType {
			case "ConfigError":
				_, ok := simplified.(errors.ConfigError)
				assert.True(t, ok, "Should be ConfigError type")
			case "UserError":
				_, ok := simplified.(errors.UserError)
				assert.True(t, ok, "Should be UserError type")
			}
		})
	}
}

// TestSimplifyErrorPassthrough verifies friendly errors are returned unchanged
func TestSimplifyErrorPassthrough(t *testing.T) {
	t.Parallel()

	userErr := errors.UserError{Message: "already friendly"}
	assert.Equal(t, error(userErr), errors.SimplifyError(userErr))

	configErr := errors.ConfigError{Message: "also friendly"}
	assert.Equal(t, error(configErr), errors.SimplifyError(configErr))

	plain := fmt.Errorf("nothing to simplify here")
	assert.Equal(t, plain, errors.SimplifyError(plain))
}

// TestUserErrorUnwrap verifies error unwrapping works correctly
func TestUserErrorUnwrap(t *testing.T) {
	t.Parallel()

	baseErr := fmt.Errorf("base error")
	userErr := errors.UserError{
		Message: "wrapped error",
		Err:     baseErr,
	}

	unwrapped := userErr.Unwrap()
	assert.Equal(t, baseErr, unwrapped)
}

// TestNilErrorHandling verifies nil errors are handled gracefully
func TestNilErrorHandling(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.SimplifyError(nil))
}
