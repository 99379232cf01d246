package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zaireen_import/internal/repository"
)

type fakeRepo struct {
	token *repository.AccessToken
	err   error
}

func (f *fakeRepo) FindByPlainToken(ctx context.Context, plainToken string) (*repository.AccessToken, error) {
	return f.token, f.err
}

func TestTokenMiddleware_setsUserID(t *testing.T) {
	fr := &fakeRepo{token: &repository.AccessToken{ID: 1, UserID: 123}}

	got := ""
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, err := GetUserID(r.Context())
		if err != nil {
			t.Fatalf("expected user id present, got err: %v", err)
		}
		got = uid
		w.WriteHeader(http.StatusOK)
	})

	srv := TokenMiddleware(fr)(handler)

	req := httptest.NewRequest("POST", "/scan", nil)
	req.Header.Set("Authorization", "Bearer mytoken")
	rr := httptest.NewRecorder()

	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", rr.Code)
	}
	if got != "123" {
		t.Fatalf("expected user id 123, got %q", got)
	}
}

func TestTokenMiddleware_blockWhenMissing(t *testing.T) {
	fr := &fakeRepo{token: nil}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("should not reach handler with missing token")
	})
	srv := TokenMiddleware(fr)(handler)

	req := httptest.NewRequest("POST", "/scan", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 Unauthorized, got %d", rr.Code)
	}
}

func TestTokenMiddleware_blockWhenExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	fr := &fakeRepo{token: &repository.AccessToken{ID: 1, UserID: 123, ExpiresAt: &past}}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("should not reach handler with expired token")
	})
	srv := TokenMiddleware(fr)(handler)

	req := httptest.NewRequest("POST", "/scan", nil)
	req.Header.Set("Authorization", "Bearer mytoken")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 Unauthorized, got %d", rr.Code)
	}
}

func TestTokenMiddleware_allowsOptions(t *testing.T) {
	fr := &fakeRepo{token: nil}
	reached := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})
	srv := TokenMiddleware(fr)(handler)

	req := httptest.NewRequest("OPTIONS", "/scan", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 No Content, got %d", rr.Code)
	}
	if !reached {
		t.Fatalf("expected handler to be reached on OPTIONS")
	}
}
