package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tetherhq/tether-read/api/auth"
	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/http/request"
	"github.com/tetherhq/tether-read/log"
)

func init() {
	config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

// stubVerifier accepts one known token and fails everything else with a
// configurable error kind.
type stubVerifier struct {
	token   string
	ownerID string
	err     error
}

func (s *stubVerifier) Verify(_ context.Context, rawToken string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if rawToken == s.token {
		return s.ownerID, nil
	}
	return "", auth.ErrVerificationFailed
}

func runAuth(t *testing.T, verifier auth.Verifier, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = request.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()

	NewMiddleware(verifier).AuthenticationInterceptor(next).ServeHTTP(w, r)
	return w, gotUserID
}

func TestAuthMissingHeader(t *testing.T) {
	w, _ := runAuth(t, &stubVerifier{}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d, want 401", w.Code)
	}
}

func TestAuthMalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Bearer ", "Basic dXNlcjpwYXNz", "tok-without-scheme"} {
		w, _ := runAuth(t, &stubVerifier{token: "tok", ownerID: "uid"}, header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestAuthExpiredTokenIsDistinguishable(t *testing.T) {
	w, _ := runAuth(t, &stubVerifier{err: auth.ErrExpiredCredential}, "Bearer stale")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "TOKEN_EXPIRED") {
		t.Errorf("expired credential should carry a distinct code, body: %s", body)
	}
}

func TestAuthValidTokenPropagatesOwner(t *testing.T) {
	w, gotUserID := runAuth(t, &stubVerifier{token: "tok-1", ownerID: "uid-42"}, "Bearer tok-1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotUserID != "uid-42" {
		t.Errorf("handler saw owner id %q, want uid-42", gotUserID)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	w := httptest.NewRecorder()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("preflight must not reach the handler")
	})
	NewMiddleware(&stubVerifier{}).HandleCORS(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS origin header")
	}
}
