package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"feed-ranking-service/internal/shared/jwt"
)

func TestWrap_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"generic", json.Unmarshal([]byte("x"), &struct{}{}), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Wrap(func(w http.ResponseWriter, r *http.Request) error { return tc.err })
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			var body APIError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("error envelope not JSON: %v", err)
			}
			if body.Status != tc.want {
				t.Errorf("envelope status = %d, want %d", body.Status, tc.want)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	var got string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = MaybeUserFromCtx(r)
	})

	// No token: request passes through anonymously.
	rec := httptest.NewRecorder()
	OptionalAuth(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	if rec.Code != http.StatusOK || got != "" {
		t.Errorf("anonymous request: status=%d uid=%q, want 200 and empty", rec.Code, got)
	}

	// Valid token: user id lands in context.
	tok, err := jwt.Make("v1")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	OptionalAuth(inner).ServeHTTP(httptest.NewRecorder(), req)
	if got != "v1" {
		t.Errorf("uid = %q, want v1", got)
	}

	// Garbage token on an optional route degrades to anonymous.
	req = httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	got = "unset"
	OptionalAuth(inner).ServeHTTP(httptest.NewRecorder(), req)
	if got != "" {
		t.Errorf("uid = %q, want empty for bad token", got)
	}
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a token")
	})
	rec := httptest.NewRecorder()
	AuthMiddleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?limit=25&bad=abc", nil)
	if got := QueryInt(r, "limit", 50); got != 25 {
		t.Errorf("limit = %d, want 25", got)
	}
	if got := QueryInt(r, "bad", 50); got != 50 {
		t.Errorf("bad = %d, want fallback 50", got)
	}
	if got := QueryInt(r, "missing", 7); got != 7 {
		t.Errorf("missing = %d, want fallback 7", got)
	}
}
