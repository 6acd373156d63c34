package routes

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shopmall_back_end/internal/handlers/order"
	"shopmall_back_end/internal/handlers/product"
	"shopmall_back_end/internal/handlers/user"
	"shopmall_back_end/internal/middleware"
)

// RegisterRoutes branche toute la surface REST sous /api.
func RegisterRoutes(r *gin.Engine) {
	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")

	// --- Produits ---
	products := api.Group("/products")
	products.GET("", product.GetAllProducts)
	products.GET("/search", product.SearchProducts)
	products.GET("/category/:category", product.GetProductsByCategory)
	products.GET("/sku/:sku", product.GetProductBySku)
	products.GET("/:id", product.GetProductByID)
	products.GET("/:id/image-url", product.GetProductImageURL)

	// Écritures produits réservées aux administrateurs
	adminProducts := products.Group("")
	adminProducts.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	adminProducts.POST("", product.CreateProduct)
	adminProducts.PUT("/:id", product.UpdateProduct)
	adminProducts.PATCH("/:id", product.PartialUpdateProduct)
	adminProducts.DELETE("/:id", product.DeleteProduct)
	adminProducts.POST("/:id/image", product.UploadProductImage)

	// --- Utilisateurs ---
	users := api.Group("/users")
	users.GET("", user.GetAllUsers)
	users.GET("/email/:email", user.GetUserByEmail)
	users.GET("/:id", user.GetUserByID)
	users.POST("", user.CreateUser)
	users.POST("/login", middleware.LoginRateLimit(), user.Login)
	users.PUT("/:id", user.UpdateUser)
	users.PATCH("/:id", user.PartialUpdateUser)
	users.DELETE("/:id", user.DeleteUser)

	// --- Commandes ---
	orders := api.Group("/orders")
	orders.GET("/user/:userId", order.GetOrdersByUser)
	orders.GET("/:id", order.GetOrderByID)
	orders.POST("", order.CreateOrder) // achat invité autorisé

	adminOrders := orders.Group("")
	adminOrders.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	adminOrders.GET("", order.GetAllOrders)
	adminOrders.PUT("/:id/status", order.UpdateOrderStatus)
	adminOrders.PUT("/:id", order.UpdateOrder)
	adminOrders.DELETE("/:id", order.DeleteOrder)
}
