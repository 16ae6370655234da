package notificationController

import (
	"log"
	"time"

	"lms/controllers/shared"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	notificationValidator "lms/validators/notification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateNotification stores the notification and fans it out to the audience
func AdminCreateNotification(c *fiber.Ctx) error {
	adminID := c.Locals("userId").(uint)
	reqData, ok := c.Locals("validatedNotification").(*notificationValidator.CreateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	if reqData.Audience == models.AudienceUser {
		var count int64
		db.Model(&models.User{}).Where("id = ? AND is_deleted = ?", *reqData.TargetUserID, false).Count(&count)
		if count == 0 {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Target user not found!", nil)
		}
	}

	n := models.Notification{
		Title:     reqData.Title,
		Body:      reqData.Body,
		Audience:  reqData.Audience,
		CreatedBy: adminID,
		SendEmail: reqData.SendEmail,
	}
	if reqData.Audience == models.AudienceUser {
		n.TargetUserID = reqData.TargetUserID
	}

	if err := utils.Notify(db, &n); err != nil {
		log.Printf("[NOTIFY] Failed to create notification: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send notification!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Notification sent successfully!", n)
}

func NotificationList(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	reqData := c.Locals("validatedNotificationList").(*notificationValidator.ListQuery)

	query := database.Database.Db.Model(&models.UserNotification{}).Where("user_id = ?", user.ID)
	if reqData.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Session(&gorm.Session{}).Count(&total)

	var items []models.UserNotification
	if err := query.Preload("Notification").
		Order("created_at desc, id desc").
		Offset((reqData.Page - 1) * reqData.Limit).
		Limit(reqData.Limit).
		Find(&items).Error; err != nil {
		log.Printf("Error fetching notifications: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", fiber.Map{
		"notifications": items,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

func MarkAsRead(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	notificationID := c.Locals("notificationID").(uint)

	var item models.UserNotification
	if err := database.Database.Db.Where("id = ? AND user_id = ?", notificationID, user.ID).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
	}

	if !item.IsRead {
		now := time.Now()
		if err := database.Database.Db.Model(&item).Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read!", nil)
}

func MarkAllAsRead(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}

	res := database.Database.Db.Model(&models.UserNotification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All notifications marked as read!", fiber.Map{
		"updated": res.RowsAffected,
	})
}

func UnreadCount(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}

	var count int64
	database.Database.Db.Model(&models.UserNotification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&count)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unread count fetched!", fiber.Map{"unread": count})
}
