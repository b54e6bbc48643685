package main

import (
	"fmt"
	"log"
	"os"
	"posledger-backend/config"
	"posledger-backend/models"
	"posledger-backend/routes"
	"posledger-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Seller{},
		&models.Sale{},
		&models.Earning{},
		&models.Investment{},
		&models.RevokedToken{},
		&models.PaymentReminderLog{},
	)
}

func main() {
	reminders := services.NewDueReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
