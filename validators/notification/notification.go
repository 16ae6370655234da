package notificationValidator

import (
	"strings"

	"lms/middleware"
	"lms/validators/common"

	"github.com/gofiber/fiber/v2"
)

type CreateRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=255"`
	Body         string `json:"body" validate:"required,max=5000"`
	Audience     string `json:"audience" validate:"required,oneof=ALL PREMIUM USER"`
	TargetUserID *uint  `json:"target_user_id" validate:"required_if=Audience USER"`
	SendEmail    bool   `json:"send_email"`
}

type ListQuery struct {
	Page       int  `query:"page" json:"page" validate:"gte=1"`
	Limit      int  `query:"limit" json:"limit" validate:"gte=1,lte=100"`
	UnreadOnly bool `query:"unread_only" json:"unread_only"`
}

func CreateNotification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Body = strings.TrimSpace(reqData.Body)
		reqData.Audience = strings.ToUpper(strings.TrimSpace(reqData.Audience))

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedNotification", reqData)
		return c.Next()
	}
}

func NotificationList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &ListQuery{Page: 1, Limit: 20}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedNotificationList", reqData)
		return c.Next()
	}
}

func NotificationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Notification ID!", nil)
		}
		c.Locals("notificationID", id)
		return c.Next()
	}
}
