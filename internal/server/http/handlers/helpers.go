package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mkurbatov/craftmarket/internal/server/http/middleware"
)

// CurrentAccountID extracts the authenticated account identifier from context.
func CurrentAccountID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.AccountIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentShop extracts the authenticated seller's shop from context.
func CurrentShop(c *gin.Context) string {
	val, ok := c.Get(middleware.ShopContextKey)
	if !ok {
		return ""
	}
	shop, _ := val.(string)
	return shop
}
