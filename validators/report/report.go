package reportValidator

import (
	"errors"
	"strings"
	"time"

	"lms/config"
	"lms/middleware"
	"lms/report"
	"lms/validators/common"

	"github.com/gofiber/fiber/v2"
)

type WindowQuery struct {
	Window string `query:"window" json:"window" validate:"omitempty,oneof=day week month all custom"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Page   int    `query:"page" json:"page" validate:"gte=1"`
	Limit  int    `query:"limit" json:"limit" validate:"gte=1,lte=100"`
}

// ReportWindow resolves ?window=&from=&to= into a report.Window stored under "reportWindow"
func ReportWindow() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &WindowQuery{Page: 1, Limit: 20}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Window = strings.ToLower(strings.TrimSpace(reqData.Window))

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		w, err := report.ParseWindow(reqData.Window, strings.TrimSpace(reqData.From), strings.TrimSpace(reqData.To),
			time.Now(), config.AppConfig.Location())
		if err != nil {
			if errors.Is(err, report.ErrInvalidWindow) {
				return middleware.ValidationErrorResponse(c, map[string]string{"window": err.Error()})
			}
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		}

		c.Locals("reportQuery", reqData)
		c.Locals("reportWindow", w)
		return c.Next()
	}
}

func StudentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, "user_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}
		c.Locals("studentID", id)
		return c.Next()
	}
}
