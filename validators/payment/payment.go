package paymentValidator

import (
	"strings"

	"lms/middleware"
	"lms/validators/common"

	"github.com/gofiber/fiber/v2"
)

type PremiumRequest struct {
	Plan      string `form:"plan" json:"plan" validate:"required,oneof=MONTHLY YEARLY"`
	Reference string `form:"reference" json:"reference" validate:"required,min=4,max=100"`
}

type ListQuery struct {
	Page   int    `query:"page" json:"page" validate:"gte=1"`
	Limit  int    `query:"limit" json:"limit" validate:"gte=1,lte=100"`
	Status string `query:"status" json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// PremiumPayment validates the multipart premium request. The proof file is optional.
func PremiumPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PremiumRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Plan = strings.ToUpper(strings.TrimSpace(reqData.Plan))
		reqData.Reference = strings.TrimSpace(reqData.Reference)

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPremium", reqData)
		return c.Next()
	}
}

// PaymentList validates the history and admin list queries
func PaymentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &ListQuery{Page: 1, Limit: 10}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPaymentList", reqData)
		return c.Next()
	}
}

func PaymentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payment ID!", nil)
		}
		c.Locals("paymentID", id)
		return c.Next()
	}
}

func RejectPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payment ID!", nil)
		}

		reqData := new(RejectRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Reason = strings.TrimSpace(reqData.Reason)

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("paymentID", id)
		c.Locals("validatedReject", reqData)
		return c.Next()
	}
}
