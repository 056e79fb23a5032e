package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"insight_backend/internal/feature/auth/domain/entity"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockUserFinder is a mock implementation of the UserFinder interface.
type mockUserFinder struct {
	CurrentUserFunc func(ctx context.Context, email string) (*entity.User, error)
}

func (m *mockUserFinder) CurrentUser(ctx context.Context, email string) (*entity.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, email)
	}
	return nil, errors.New("user not found")
}

func setupProtectedRouter(users UserFinder) *gin.Engine {
	r := gin.New()
	r.Use(AuthRequired(users))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": UserID(c),
			"email":   Email(c),
		})
	})
	return r
}

func TestAuthRequired_NoCookie(t *testing.T) {
	t.Parallel()

	r := setupProtectedRouter(&mockUserFinder{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_EmptyCookie(t *testing.T) {
	t.Parallel()

	r := setupProtectedRouter(&mockUserFinder{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: ""})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_UnknownUser(t *testing.T) {
	t.Parallel()

	r := setupProtectedRouter(&mockUserFinder{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "ghost@example.com"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_ValidCookie(t *testing.T) {
	t.Parallel()

	users := &mockUserFinder{
		CurrentUserFunc: func(ctx context.Context, email string) (*entity.User, error) {
			if email == "test@example.com" {
				return &entity.User{ID: 42, Email: email}, nil
			}
			return nil, errors.New("user not found")
		},
	}
	r := setupProtectedRouter(users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "test@example.com"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// The handler can read the authenticated identity from the context
	expected := `{"email":"test@example.com","user_id":42}`
	if w.Body.String() != expected {
		t.Errorf("expected body %s, got %s", expected, w.Body.String())
	}
}

func TestSetAndClearUserCookie(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.POST("/set", func(c *gin.Context) {
		SetUserCookie(c, "test@example.com")
		c.Status(http.StatusOK)
	})
	r.POST("/clear", func(c *gin.Context) {
		ClearUserCookie(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/set", nil))
	res := w.Result()
	defer func() { _ = res.Body.Close() }()

	cookies := res.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != CookieName {
		t.Errorf("unexpected cookie name %q", cookie.Name)
	}
	// gin.SetCookie URL-escapes the value, so unescape before comparing
	if got, err := url.QueryUnescape(cookie.Value); err != nil || got != "test@example.com" {
		t.Errorf("unexpected cookie value %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if cookie.MaxAge != CookieMaxAge {
		t.Errorf("expected max age %d, got %d", CookieMaxAge, cookie.MaxAge)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/clear", nil))
	res = w.Result()
	defer func() { _ = res.Body.Close() }()

	cookies = res.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Errorf("expected cleared cookie, got %v", cookies[0])
	}
}
