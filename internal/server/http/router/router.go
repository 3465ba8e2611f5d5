package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/mkurbatov/craftmarket/internal/server/http/handlers"
	"github.com/mkurbatov/craftmarket/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	productHandler := handlers.NewProductHandler(facade)

	api := engine.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(facade))
	orders.POST("", orderHandler.Place)
	orders.GET("/mine", orderHandler.Mine)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id/payment", orderHandler.Pay)
	orders.PUT("/:id/deliver", orderHandler.Deliver)

	seller := orders.Group("")
	seller.Use(middleware.SellerRequired())
	seller.GET("", orderHandler.ListForSeller)
	seller.GET("/summary", productHandler.Summary)

	return engine
}
