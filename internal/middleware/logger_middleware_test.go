package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"blogging-api/internal/domain"
	"blogging-api/internal/service"
	"blogging-api/pkg/jwt"
)

func TestLoggerMiddlewareUserField(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	const secret = "logger-test-secret"
	repo := &stubUserRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "jane@example.com"},
	}}
	authService := service.NewAuthService(repo, secret, time.Hour)
	token, _ := jwt.GenerateToken("user-1", time.Hour, secret)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := LoggerMiddleware()(AuthMiddleware(authService)(final))

	req := httptest.NewRequest("GET", "/api/blogs/me/all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	chain.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "User: user-1") {
		t.Errorf("authenticated request logged as %q, want User: user-1", buf.String())
	}

	buf.Reset()
	chain.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/blogs/me/all", nil))

	if !strings.Contains(buf.String(), "User: anonymous") {
		t.Errorf("unauthenticated request logged as %q, want User: anonymous", buf.String())
	}
}
