package userProfileRoutes

import (
	userProfileController "lms/controllers/userControllers"
	"lms/middleware"
	userProfileValidator "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", userProfileController.GetProfile)
	userGroup.Put("/profile", userProfileValidator.UpdateProfile(), userProfileController.UpdateProfile)
	userGroup.Put("/change/password", userProfileValidator.ChangePassword(), userProfileController.ChangePassword)
}
