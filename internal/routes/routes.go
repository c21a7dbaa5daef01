package routes

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/devalvin/storefront-golang/internal/handlers"
	"github.com/devalvin/storefront-golang/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// CORSMiddleware tells the browser the configured frontend origin may call us.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight OPTIONS requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// registerTagNameFunc makes validator report json field names ("imageUrl")
// instead of Go struct field names ("ImageURL") in validation errors.
func registerTagNameFunc() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	registerTagNameFunc()

	router := gin.Default()
	router.Use(CORSMiddleware(h.Cfg.CORSOrigin))

	// Uploaded product images are served straight from disk.
	router.Static("/uploads", h.Cfg.UploadPath)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	})

	// --- Auth Routes (Public) ---
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.GET("/me", middleware.AuthMiddleware(), h.Me)
	}

	// --- Public Catalog Routes ---
	products := router.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/categories/list", h.GetCategories)
		products.GET("/:id", h.GetProduct)
	}

	// --- Admin Catalog Routes ---
	adminProducts := router.Group("/products")
	adminProducts.Use(middleware.AuthMiddleware())
	adminProducts.Use(middleware.AdminMiddleware())
	{
		adminProducts.POST("", h.CreateProduct)
		adminProducts.POST("/image", h.UploadProductImage)
		adminProducts.PUT("/:id", h.UpdateProduct)
		adminProducts.DELETE("/:id", h.DeleteProduct)
	}

	// --- Order Routes (Login Required) ---
	orders := router.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/my-orders", h.GetMyOrders)
		orders.GET("/:id", h.GetOrderDetails)

		// --- Admin-Only Order Routes ---
		adminOrders := orders.Group("")
		adminOrders.Use(middleware.AdminMiddleware())
		{
			adminOrders.GET("", h.GetAllOrders)
			adminOrders.PUT("/:id/status", h.UpdateOrderStatus)
		}
	}

	return router
}
