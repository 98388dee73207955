package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

func TestClassifyVerifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"expired", jwt.ErrTokenExpired, ErrExpiredCredential},
		{"wrapped expired", errors.Wrap(jwt.ErrTokenExpired, "parse"), ErrExpiredCredential},
		{"malformed", jwt.ErrTokenMalformed, ErrMalformedCredential},
		{"bad signature", jwt.ErrTokenSignatureInvalid, ErrVerificationFailed},
		{"wrong issuer", jwt.ErrTokenInvalidIssuer, ErrVerificationFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyVerifyError(tc.err); got != tc.want {
				t.Errorf("classifyVerifyError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
