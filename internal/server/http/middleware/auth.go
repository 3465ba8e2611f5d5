package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkurbatov/craftmarket/internal/domain/model"
	pkgAuth "github.com/mkurbatov/craftmarket/internal/pkg/auth"
)

const (
	// AccountIDContextKey is a gin context key for the authenticated account id.
	AccountIDContextKey = "accountID"
	// RoleContextKey is a gin context key for the authenticated role.
	RoleContextKey = "accountRole"
	// ShopContextKey is a gin context key for the seller's shop.
	ShopContextKey = "accountShop"

	authCookieName = "craftmarket_token"
)

// TokenParser validates auth tokens and returns the carried claims.
type TokenParser interface {
	ParseToken(token string) (*pkgAuth.Claims, error)
}

// AuthRequired ensures the caller is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(AccountIDContextKey, claims.AccountID)
		c.Set(RoleContextKey, claims.Role)
		c.Set(ShopContextKey, claims.Shop)
		c.Next()
	}
}

// SellerRequired ensures the authenticated caller owns a shop.
func SellerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(RoleContextKey)
		shop, _ := c.Get(ShopContextKey)
		if role != string(model.RoleSeller) || shop == "" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
