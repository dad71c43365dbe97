package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogging-api/internal/domain"
	"blogging-api/internal/repository"
	"blogging-api/internal/service"
	"blogging-api/pkg/jwt"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) FindByID(id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "middleware-test-secret"

	repo := &stubUserRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "jane@example.com"},
	}}
	authService := service.NewAuthService(repo, secret, time.Hour)

	validToken, _ := jwt.GenerateToken("user-1", time.Hour, secret)
	staleToken, _ := jwt.GenerateToken("deleted-user", time.Hour, secret)
	expiredToken, _ := jwt.GenerateToken("user-1", -time.Hour, secret)

	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})
	gate := AuthMiddleware(authService)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not a bearer scheme", "Basic abc123", http.StatusUnauthorized, ""},
		{"malformed header", "Bearer", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, ""},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized, ""},
		{"token for deleted user", "Bearer " + staleToken, http.StatusUnauthorized, ""},
		{"valid token", "Bearer " + validToken, http.StatusOK, "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUserID = ""

			req := httptest.NewRequest("POST", "/api/blogs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if seenUserID != tt.wantUserID {
				t.Errorf("handler saw user %q, want %q", seenUserID, tt.wantUserID)
			}
		})
	}
}

func TestGetUserIDWithoutGate(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/blogs", nil)
	if got := GetUserID(req); got != "" {
		t.Errorf("GetUserID() = %q, want empty outside the gate", got)
	}
}
