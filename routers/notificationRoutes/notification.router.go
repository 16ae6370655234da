package notificationRoutes

import (
	controllers "lms/controllers/notification"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notification", middleware.JWTMiddleware)

	notificationGroup.Get("/list", validators.NotificationList(), controllers.NotificationList)
	notificationGroup.Get("/unread-count", controllers.UnreadCount)
	notificationGroup.Post("/read-all", controllers.MarkAllAsRead)
	notificationGroup.Post("/:id/read", validators.NotificationID(), controllers.MarkAsRead)

	app.Post("/admin/notification",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleAdmin),
		middleware.CheckPermissionMiddleware(models.PermSendNotifications),
		validators.CreateNotification(),
		controllers.AdminCreateNotification,
	)
}
