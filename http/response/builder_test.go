package response // import "github.com/tetherhq/tether-read/http/response"

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/log"
)

func init() {
	config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

func TestResponseHasCommonHeaders(t *testing.T) {
	r, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		New(w, r).Write()
	})

	handler.ServeHTTP(w, r)
	resp := w.Result()

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}

	for header, expected := range headers {
		actual := resp.Header.Get(header)
		if actual != expected {
			t.Fatalf(`Unexpected header value, got %q instead of %q`, actual, expected)
		}
	}
}

func TestErrorBodyCarriesCode(t *testing.T) {
	r, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	TokenExpired(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	var body struct {
		ErrorMessage string `json:"error_message"`
		Code         string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != CodeTokenExpired {
		t.Errorf("code = %q, want %q", body.Code, CodeTokenExpired)
	}
	if body.ErrorMessage == "" {
		t.Errorf("error_message should not be empty")
	}
}

func TestNotFoundIsGeneric(t *testing.T) {
	r, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	NotFound(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var body struct {
		ErrorMessage string `json:"error_message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	// the body must not reveal whether the record exists for another owner
	if body.ErrorMessage != "resource not found" {
		t.Errorf("not-found message should stay generic, got %q", body.ErrorMessage)
	}
}
