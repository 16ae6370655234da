package main

import (
	"log"

	"lms/cache"
	"lms/config"
	"lms/database"
	"lms/middleware"
	authRoutes "lms/routers/authRoutes"
	chapterRoutes "lms/routers/chapterRoutes"
	notificationRoutes "lms/routers/notificationRoutes"
	paymentRoutes "lms/routers/paymentRoutes"
	reportRoutes "lms/routers/reportRoutes"
	superAdminRoutes "lms/routers/superAdmin"
	userProfileRoutes "lms/routers/userRoutes"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	cache.Init(config.AppConfig)

	app := fiber.New(fiber.Config{
		BodyLimit: 6 * 1024 * 1024, // proof uploads are capped at 5MB
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))
	app.Use(middleware.GlobalRateLimiter())

	// Payment proofs
	app.Static("/uploads", config.AppConfig.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	chapterRoutes.SetupChapterRoutes(app)
	chapterRoutes.SetupAdminChapterRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	reportRoutes.SetupReportRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)

	utils.InitializePremiumScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
