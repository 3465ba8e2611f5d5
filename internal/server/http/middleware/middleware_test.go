package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
	pkgAuth "github.com/mkurbatov/craftmarket/internal/pkg/auth"
	testhelpers "github.com/mkurbatov/craftmarket/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newAuthEngine(parser TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", AuthRequired(parser), func(c *gin.Context) {
		id, _ := c.Get(AccountIDContextKey)
		shop, _ := c.Get(ShopContextKey)
		c.JSON(http.StatusOK, gin.H{"id": id, "shop": shop})
	})
	engine.GET("/seller", AuthRequired(parser), SellerRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestAuthRequiredMissingToken(t *testing.T) {
	engine := newAuthEngine(testhelpers.TokenParserStub{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	engine := newAuthEngine(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequiredBearerHeader(t *testing.T) {
	engine := newAuthEngine(testhelpers.TokenParserStub{Claims: &pkgAuth.Claims{AccountID: 7, Role: string(model.RoleBuyer)}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRequiredCookie(t *testing.T) {
	engine := newAuthEngine(testhelpers.TokenParserStub{Claims: &pkgAuth.Claims{AccountID: 7, Role: string(model.RoleBuyer)}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "craftmarket_token", Value: "good"})
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSellerRequired(t *testing.T) {
	cases := []struct {
		name   string
		claims *pkgAuth.Claims
		want   int
	}{
		{"buyer rejected", &pkgAuth.Claims{AccountID: 1, Role: string(model.RoleBuyer)}, http.StatusForbidden},
		{"shopless seller rejected", &pkgAuth.Claims{AccountID: 2, Role: string(model.RoleSeller)}, http.StatusForbidden},
		{"seller allowed", &pkgAuth.Claims{AccountID: 3, Role: string(model.RoleSeller), Shop: "workshop"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newAuthEngine(testhelpers.TokenParserStub{Claims: tc.claims})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/seller", nil)
			req.Header.Set("Authorization", "Bearer token")
			engine.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestLogger(testLogger()))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "given")
	engine.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "given" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestSetAuthCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	SetAuthCookie(c, "tok")

	if got := rec.Header().Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("unexpected authorization header: %q", got)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "craftmarket_token" || cookies[0].Value != "tok" {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
}
