package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/handlers/order"
	"velora_back_end/internal/handlers/product"
	"velora_back_end/internal/handlers/user"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
)

// RegisterRoutes branche toute la surface HTTP sous /api/v1.
func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	// Sonde de vie
	api.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "API opérationnelle",
		})
	})

	admin := middleware.AuthorizeRoles(models.RoleAdmin)

	// Produits
	products := api.Group("/products")
	{
		products.GET("", product.GetAllProducts)
		products.POST("", middleware.AuthRequired(), admin, product.CreateProduct)
		products.GET("/categories", product.GetProductsCategories)
		products.GET("/priceInfo", product.PriceInfo)
		products.PUT("/review", middleware.AuthRequired(), product.CreateProductReview)
		products.GET("/review", product.GetProductReviews)
		products.DELETE("/review", product.DeleteProductReview)
		products.GET("/:id", product.GetProduct)
		products.PUT("/:id", middleware.AuthRequired(), admin, product.UpdateProduct)
		products.DELETE("/:id", middleware.AuthRequired(), admin, product.DeleteProduct)
	}

	// Utilisateurs
	users := api.Group("/users")
	{
		users.POST("/signup", middleware.SignupRateLimit(), user.Signup)
		users.POST("/login", middleware.LoginRateLimit(), user.Login)
		users.DELETE("/logout", user.Logout)

		users.PUT("/password/forgot", middleware.ForgotPasswordRateLimit(), user.ForgotPassword)
		users.PUT("/password/reset/:token", user.ResetPassword)

		me := users.Group("/me", middleware.AuthRequired())
		{
			me.GET("", user.GetMe)
			me.PATCH("", user.UpdateMe)
			me.POST("", user.UpdateMyPassword)
			me.DELETE("", user.DeleteMe)
		}

		users.GET("", middleware.AuthRequired(), admin, user.GetAllUsers)
		users.GET("/:id", middleware.AuthRequired(), admin, user.GetUser)
		users.PATCH("/:id", middleware.AuthRequired(), admin, user.UpdateUser)
		users.DELETE("/:id", middleware.AuthRequired(), admin, user.DeleteUser)
	}

	// Commandes
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.POST("", order.CreateOrder)
		orders.GET("", admin, order.GetAllOrders)
		orders.GET("/me", order.GetMyOrders)
		orders.PATCH("/me/:id", order.UpdateMyOrder)
		orders.DELETE("/me/:id", order.CancelMyOrder)

		orders.GET("/admin/:id", admin, order.GetSingleOrder)
		orders.PUT("/admin/:id", admin, order.UpdateOrder)
		orders.PATCH("/admin/:id", admin, order.UpdateStatus)
		orders.DELETE("/admin/:id", admin, order.CancelOrder)
	}
}
