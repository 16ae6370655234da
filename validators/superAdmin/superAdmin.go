package superAdminValidator

import (
	"strings"

	"lms/middleware"
	"lms/validators/common"

	"github.com/gofiber/fiber/v2"
)

type UserListQuery struct {
	Page   int    `query:"page" json:"page" validate:"gte=1"`
	Limit  int    `query:"limit" json:"limit" validate:"gte=1,lte=100"`
	Role   string `query:"role" json:"role" validate:"omitempty,oneof=USER ADMIN"`
	Search string `query:"search" json:"search" validate:"max=100"`
}

type RegisterAdminRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type PermissionQuery struct {
	UserID uint `query:"userId" json:"userId" validate:"required,gte=1"`
}

type BlockRequest struct {
	Blocked bool `json:"blocked"`
	Hours   *int `json:"hours" validate:"omitempty,gte=1,lte=8760"` // nil blocks until unblocked
}

func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &UserListQuery{Page: 1, Limit: 10}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Role = strings.ToUpper(strings.TrimSpace(reqData.Role))
		reqData.Search = strings.TrimSpace(reqData.Search)

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validateUserList", reqData)
		return c.Next()
	}
}

func RegisterAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterAdminRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdmin", reqData)
		return c.Next()
	}
}

func PermissionByUserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PermissionQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"userId": "userId must be a valid positive number!"})
		}

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUserId", reqData.UserID)
		return c.Next()
	}
}

func BlockUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		reqData := new(BlockRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("targetUserID", id)
		c.Locals("validatedBlock", reqData)
		return c.Next()
	}
}
