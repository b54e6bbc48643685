package routes

import (
	"os"
	"strings"

	"posledger-backend/config"
	"posledger-backend/controllers"
	"posledger-backend/services"
	"posledger-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	tokenStore := services.NewDBTokenStore(config.DB)

	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.POST("/refresh", controllers.Refresh)

		auth.Use(utils.AuthMiddleware(tokenStore))
		auth.POST("/logout", controllers.Logout)
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(tokenStore))
	{
		// User routes (admin only)
		users := api.Group("/users", utils.RequireAdmin())
		{
			users.POST("", controllers.CreateUser)
			users.GET("", controllers.GetUsers)
			users.GET("/:id", controllers.GetUser)
			users.PUT("/:id", controllers.UpdateUser)
			users.DELETE("/:id", controllers.DeleteUser)
		}

		// Product routes
		products := api.Group("/products")
		{
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)

			products.POST("", utils.RequireAdmin(), controllers.CreateProduct)
			products.PUT("/:id", utils.RequireAdmin(), controllers.UpdateProduct)
			products.DELETE("/:id", utils.RequireAdmin(), controllers.DeleteProduct)
		}

		// Seller routes
		sellers := api.Group("/sellers")
		{
			sellers.GET("", controllers.GetSellers)
			sellers.GET("/:id", controllers.GetSeller)
			sellers.GET("/:id/sales", controllers.GetSellerSales)

			sellers.POST("", utils.RequireAdmin(), controllers.CreateSeller)
			sellers.PUT("/:id", utils.RequireAdmin(), controllers.UpdateSeller)
			sellers.DELETE("/:id", utils.RequireAdmin(), controllers.DeleteSeller)
		}

		// Sale routes
		sales := api.Group("/sales", utils.RequireAdmin())
		{
			sales.POST("", controllers.CreateSale)
			sales.GET("", controllers.GetSales)
			sales.GET("/:id", controllers.GetSale)
			sales.PUT("/:id", controllers.UpdateSale)
			sales.POST("/:id/payments", controllers.RegisterPayment)
			sales.POST("/:id/cancel", controllers.CancelSale)
		}

		// Earnings routes
		earnings := api.Group("/earnings")
		{
			earnings.GET("/summary", controllers.GetEarningsSummary)
			earnings.GET("/by-product", controllers.GetEarningsByProduct)
			earnings.GET("/by-period", controllers.GetEarningsByPeriod)
			earnings.GET("/by-seller", controllers.GetEarningsBySeller)
			earnings.GET("/sale/:saleId", controllers.GetEarningBySale)
			earnings.GET("/investments", controllers.GetInvestments)

			earnings.PUT("/:id", utils.RequireAdmin(), controllers.UpdateEarning)
			earnings.POST("/investments", utils.RequireAdmin(), controllers.RegisterInvestment)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
