package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/coffeebase/coffeebase-api/internal/analytics"
	"github.com/coffeebase/coffeebase-api/internal/auth"
	"github.com/coffeebase/coffeebase-api/internal/config"
	"github.com/coffeebase/coffeebase-api/internal/httpx"
	"github.com/coffeebase/coffeebase-api/internal/order"
	"github.com/coffeebase/coffeebase-api/internal/product"
	"github.com/coffeebase/coffeebase-api/internal/review"
	"github.com/coffeebase/coffeebase-api/internal/user"
)

// App bundles the wired services the handlers depend on.
type App struct {
	Cfg       config.Config
	Tokens    *auth.Tokens
	Users     *user.Service
	Products  product.Repository
	Orders    *order.Service
	Reviews   *review.Service
	Analytics *analytics.Service
}

func SetupRouter(app *App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.CORS(app.Cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Coffee Base API is running"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := auth.RequireAuth(app.Tokens)
	admin := auth.RequireAdmin()

	api := r.Group("/api")

	ar := api.Group("/auth")
	{
		ar.POST("/signup", signUpHandler(app.Users))
		ar.POST("/login", loginHandler(app.Users))
		ar.POST("/admin/login", adminLoginHandler(app.Users))
		ar.GET("/me", authed, profileHandler(app.Users))
		ar.POST("/logout", authed, logoutHandler())
	}

	menu := api.Group("/menu")
	{
		menu.GET("", listMenuHandler(app.Products))
		menu.GET("/search", searchMenuHandler(app.Products))
		menu.GET("/:id", getProductHandler(app.Products))
		menu.GET("/:id/reviews", productReviewsHandler(app.Reviews))
		menu.POST("", authed, admin, createProductHandler(app.Products))
		menu.PUT("/:id", authed, admin, updateProductHandler(app.Products))
		menu.DELETE("/:id", authed, admin, deleteProductHandler(app.Products))
	}

	orders := api.Group("/orders", authed)
	{
		orders.POST("", createOrderHandler(app.Orders))
		orders.GET("", listMyOrdersHandler(app.Orders))
		orders.GET("/admin/all", admin, listAllOrdersHandler(app.Orders))
		orders.GET("/:id", getOrderHandler(app.Orders))
		orders.PUT("/:id/status", admin, updateOrderStatusHandler(app.Orders))
		orders.POST("/:id/payment", payOrderHandler(app.Orders))
		orders.POST("/:id/review", addReviewHandler(app.Reviews))
	}

	an := api.Group("/analytics", authed, admin)
	{
		an.GET("/statistics", statisticsHandler(app.Analytics))
		an.GET("/revenue", revenueHandler(app.Analytics))
		an.GET("/top-products", topProductsHandler(app.Analytics))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpx.ErrorResponse{Error: "Route not found"})
	})
	return r
}
