package paymentRoutes

import (
	controllers "lms/controllers/payment"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment", middleware.JWTMiddleware)

	paymentGroup.Post("/premium", validators.PremiumPayment(), controllers.RequestPremium)
	paymentGroup.Get("/history", validators.PaymentList(), controllers.PaymentHistory)

	adminGroup := app.Group("/admin")
	jwt := middleware.JWTMiddleware
	admin := middleware.RequireRole(models.RoleAdmin)
	review := middleware.CheckPermissionMiddleware(models.PermReviewPayments)

	adminGroup.Get("/payments", jwt, admin, review, validators.PaymentList(), controllers.AdminListPayments)
	adminGroup.Post("/payment/:id/approve", jwt, admin, review, validators.PaymentID(), controllers.AdminApprovePayment)
	adminGroup.Post("/payment/:id/reject", jwt, admin, review, validators.RejectPayment(), controllers.AdminRejectPayment)
}
