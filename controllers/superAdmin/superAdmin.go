package superAdminController

import (
	"errors"
	"log"
	"time"

	"lms/config"
	authController "lms/controllers/auth"
	"lms/database"
	"lms/middleware"
	"lms/models"
	superAdminValidator "lms/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func UserList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validateUserList").(*superAdminValidator.UserListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	query := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)
	if reqData.Role != "" {
		query = query.Where("role = ?", reqData.Role)
	}
	if reqData.Search != "" {
		like := "%" + reqData.Search + "%"
		query = query.Where("(name LIKE ? OR email LIKE ?)", like, like)
	}

	var total int64
	query.Session(&gorm.Session{}).Count(&total)

	var users []models.User
	if err := query.Order("id desc").
		Offset((reqData.Page - 1) * reqData.Limit).
		Limit(reqData.Limit).
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// RegisterAdmin creates a back-office account with the default admin permissions
func RegisterAdmin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdmin").(*superAdminValidator.RegisterAdminRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return authController.SeedPermissions(tx, models.RoleAdmin, newUser.ID)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}
	if err != nil {
		log.Printf("Error saving admin to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register admin!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Admin registered successfully.", newUser)
}

func PermissionsByUserID(c *fiber.Ctx) error {
	userID := c.Locals("validatedUserId").(uint)

	var permissions []string
	if err := database.Database.Db.Model(&models.Permission{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Pluck("permission", &permissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch permissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Permissions fetched.", fiber.Map{
		"user_id":     userID,
		"permissions": permissions,
	})
}

// BlockUser blocks or unblocks login for a student. Admin accounts cannot be blocked here.
func BlockUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(uint)
	reqData := c.Locals("validatedBlock").(*superAdminValidator.BlockRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin accounts cannot be blocked!", nil)
	}

	updates := map[string]interface{}{
		"is_blocked":            reqData.Blocked,
		"blocked_until":         nil,
		"failed_login_attempts": 0,
	}
	if reqData.Blocked && reqData.Hours != nil {
		updates["blocked_until"] = time.Now().Add(time.Duration(*reqData.Hours) * time.Hour)
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Error updating block state of user %d: %v", targetID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	msg := "User unblocked successfully."
	if reqData.Blocked {
		msg = "User blocked successfully."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, msg, nil)
}
