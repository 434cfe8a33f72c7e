package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/handlers"
	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	v1.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API v1 opérationnelle"})
	})

	// Users
	users := v1.Group("/users")
	users.POST("", handlers.CreateUser)
	users.POST("/login", middleware.LoginRateLimit(), handlers.Login)
	users.GET("/:id", middleware.AuthRequired(), handlers.GetUserByID)

	// Categories
	categories := v1.Group("/categories", middleware.AuthRequired())
	categories.POST("/create", middleware.RequireAdmin, handlers.CreateCategory)
	categories.GET("", handlers.GetAllCategories)
	categories.GET("/options", handlers.GetCategoryOptions)
	categories.GET("/:id", handlers.GetCategoryByID)
	categories.PUT("/:id", middleware.RequireAdmin, handlers.UpdateCategory)
	categories.DELETE("/:id", middleware.RequireAdmin, handlers.DeleteCategory)

	// Model verities
	modelVerities := v1.Group("/modelVerities", middleware.AuthRequired())
	modelVerities.POST("/create", middleware.RequireAdmin, handlers.CreateModelVerity)
	modelVerities.GET("", handlers.GetAllModelVerities)
	modelVerities.DELETE("/:id", middleware.RequireAdmin, handlers.DeleteModelVerity)

	// Products
	products := v1.Group("/products", middleware.AuthRequired())
	products.POST("", middleware.RequireAdmin, handlers.CreateProduct)
	products.GET("", handlers.GetAllProducts)
	products.GET("/search", handlers.SearchProducts)
	products.GET("/:id", handlers.GetProductByID)
	products.PUT("/:id", middleware.RequireAdmin, handlers.UpdateProduct)
	products.DELETE("/:id", middleware.RequireAdmin, handlers.DeleteProduct)

	// Options de couleur (variantes)
	products.POST("/:id/colors", middleware.RequireAdmin, handlers.AddColorOption)
	products.PUT("/:id/colors/:colorId", middleware.RequireAdmin, handlers.UpdateColorOption)
	products.PUT("/:id/colors/:colorId/images-order", middleware.RequireAdmin, handlers.ReorderColorImages)
	products.GET("/:id/colors/:colorId/images", handlers.GetColorImages)
}
