package superAdminRoutes

import (
	superAdminController "lms/controllers/superAdmin"
	"lms/middleware"
	"lms/models"
	superAdminValidator "lms/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")
	jwt := middleware.JWTMiddleware
	admin := middleware.RequireRole(models.RoleAdmin)

	adminGroup.Get("/user/list", jwt, admin, superAdminValidator.List(), superAdminController.UserList)
	adminGroup.Post("/register-admin", jwt, admin, superAdminValidator.RegisterAdmin(), superAdminController.RegisterAdmin)
	adminGroup.Put("/user/:id/block", jwt, admin, superAdminValidator.BlockUser(), superAdminController.BlockUser)
	adminGroup.Get("/permission", jwt, admin, superAdminValidator.PermissionByUserID(), superAdminController.PermissionsByUserID)
}
