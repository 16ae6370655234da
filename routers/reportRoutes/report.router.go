package reportRoutes

import (
	controllers "lms/controllers/report"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/report"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App) {
	guard := []fiber.Handler{
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleAdmin),
		middleware.CheckPermissionMiddleware(models.PermViewReports),
	}

	reportGroup := app.Group("/admin/report", guard...)
	reportGroup.Get("/students", validators.ReportWindow(), controllers.AdminStudentReport)
	reportGroup.Get("/student/:user_id", validators.StudentID(), validators.ReportWindow(), controllers.AdminStudentDetail)

	dashGroup := app.Group("/admin/dashboard", guard...)
	dashGroup.Get("/stats", controllers.AdminDashboardStats)
}
