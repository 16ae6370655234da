package userController

import (
	"log"
	"time"

	"lms/config"
	"lms/controllers/shared"
	"lms/database"
	"lms/middleware"
	"lms/models"
	userValidator "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// GetProfile returns the user with the current premium state
func GetProfile(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}

	var pending models.PremiumPayment
	hasPending := database.Database.Db.
		Where("user_id = ? AND status = ? AND is_deleted = ?", user.ID, models.PaymentPending, false).
		Limit(1).Find(&pending).RowsAffected > 0

	premium := fiber.Map{
		"active":     user.Entitlement().Active(time.Now()),
		"expires_at": user.PremiumExpiresAt,
	}
	if hasPending {
		premium["pending_payment_id"] = pending.ID
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"user":    user,
		"premium": premium,
	})
}

func UpdateProfile(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	reqData, ok := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := database.Database.Db.Model(user).Update("name", reqData.Name).Error; err != nil {
		log.Printf("Error updating profile of user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

func ChangePassword(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	reqData, ok := c.Locals("validatedPassword").(*userValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.OldPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Old password is incorrect!", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := database.Database.Db.Model(user).Update("password", string(hashed)).Error; err != nil {
		log.Printf("Error saving password of user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully!", nil)
}
