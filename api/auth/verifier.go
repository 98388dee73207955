package auth // import "github.com/tetherhq/tether-read/api/auth"

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/log"
)

// Credential failure kinds. Expired is its own kind because clients react
// to it differently (refresh and retry) than to a malformed token.
var (
	ErrMissingCredential   = errors.New("no bearer credential provided")
	ErrExpiredCredential   = errors.New("credential expired")
	ErrMalformedCredential = errors.New("credential malformed")
	ErrVerificationFailed  = errors.New("credential verification failed")
)

// Verifier validates an opaque bearer credential and yields the stable
// owner id it was issued for.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (ownerID string, err error)
}

// JWKSVerifier verifies RS256 tokens against the identity provider's
// published key set, refreshed in the background.
type JWKSVerifier struct {
	jwks     keyfunc.Keyfunc
	issuer   string
	audience string
}

// NewJWKSVerifier builds a verifier from the configured provider project.
func NewJWKSVerifier(ctx context.Context) (*JWKSVerifier, error) {
	if config.Opts.AuthProjectID == "" {
		return nil, errors.New("auth project id is required")
	}

	storage, err := jwkset.NewStorageFromHTTP(config.Opts.AuthJWKSURL, jwkset.HTTPClientStorageOptions{
		Ctx:                       ctx,
		Client:                    &http.Client{Timeout: 10 * time.Second},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           time.Hour,
		RefreshErrorHandler: func(_ context.Context, err error) {
			log.Error("Failed to refresh identity provider key set", zap.Error(err))
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create JWKS storage")
	}

	k, err := keyfunc.New(keyfunc.Options{Storage: storage})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create keyfunc")
	}

	return &JWKSVerifier{
		jwks:     k,
		issuer:   fmt.Sprintf("https://securetoken.google.com/%s", config.Opts.AuthProjectID),
		audience: config.Opts.AuthProjectID,
	}, nil
}

func (v *JWKSVerifier) Verify(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", ErrMissingCredential
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, v.jwks.KeyfuncCtx(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", classifyVerifyError(err)
	}
	if !token.Valid {
		return "", ErrVerificationFailed
	}

	if claims.Subject == "" {
		return "", ErrVerificationFailed
	}
	return claims.Subject, nil
}

// classifyVerifyError maps jwt parse failures onto the credential failure
// kinds.
func classifyVerifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredCredential
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedCredential
	default:
		return ErrVerificationFailed
	}
}
