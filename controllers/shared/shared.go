// Package shared holds lookups and responses used by several controller areas.
package shared

import (
	"errors"
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/quiz"
	"lms/quiz/ledger"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser loads the authenticated user. When it returns false the
// response has already been written.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, false
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil, false
	}
	return &user, true
}

// AccessDenied writes a 403 carrying the gate decision
func AccessDenied(c *fiber.Ctx, d quiz.Decision) error {
	return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied: "+d.Reason, fiber.Map{
		"state":         d.State,
		"reason":        d.Reason,
		"scheduled_for": d.ScheduledFor,
	})
}

// EngineError maps quiz engine errors to responses. Anything unknown is
// logged and reported as a 500.
func EngineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, quiz.ErrInvalidQuizState):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Quiz is not in a valid state!", nil)
	case errors.Is(err, ledger.ErrViewNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz view not found!", nil)
	case errors.Is(err, ledger.ErrViewSubmitted):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This quiz view was already submitted! Request a new one.", nil)
	case errors.Is(err, ledger.ErrViewExpired):
		return middleware.JsonResponse(c, fiber.StatusGone, false, "This quiz view has expired! Request a new one.", nil)
	case errors.Is(err, ledger.ErrAttemptNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	case errors.Is(err, ledger.ErrDuplicateSubmissionRace):
		c.Set(fiber.HeaderRetryAfter, "1")
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Too many simultaneous submissions, please retry!", nil)
	default:
		log.Printf("Quiz engine error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
