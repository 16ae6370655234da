package chapterController

import (
	"errors"
	"log"
	"time"

	"lms/config"
	"lms/controllers/shared"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/models/chapter"
	"lms/quiz"
	"lms/quiz/ledger"
	"lms/utils"
	chapterValidator "lms/validators/chapter"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Shuffler produces the per-request views. Shared by all requests.
var Shuffler quiz.Shuffler = quiz.NewRandomizer(nil)

// gateQuiz loads the quiz and its chapter and runs the access gate on both.
// When it returns false the response has already been written.
func gateQuiz(c *fiber.Ctx, user *models.User, quizID uint, now time.Time) (*chapter.Quiz, bool) {
	q, err := loadQuiz(c.UserContext(), quizID)
	if errors.Is(err, errNotFound) {
		_ = middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		return nil, false
	}
	if err != nil {
		log.Printf("Error loading quiz %d: %v", quizID, err)
		_ = middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
		return nil, false
	}

	detail, err := loadChapterDetail(c.UserContext(), q.ChapterID)
	if errors.Is(err, errNotFound) {
		_ = middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		return nil, false
	}
	if err != nil {
		log.Printf("Error loading chapter %d: %v", q.ChapterID, err)
		_ = middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
		return nil, false
	}

	decision := quiz.CanAccessAll(user.Entitlement(), now, detail.Chapter.AccessContent(), q.AccessContent())
	if !decision.Allowed {
		_ = shared.AccessDenied(c, decision)
		return nil, false
	}
	return q, true
}

// StartQuiz hands out a freshly shuffled view of the quiz without the answer key
func StartQuiz(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	quizID := c.Locals("quizID").(uint)
	now := time.Now()

	q, ok := gateQuiz(c, user, quizID, now)
	if !ok {
		return nil
	}

	view, err := ledger.CreateView(database.Database.Db, Shuffler, user.ID, q, config.AppConfig.QuizViewTTL, now)
	if err != nil {
		return shared.EngineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"view_id":    view.ID,
		"expires_at": view.ExpiresAt,
		"quiz":       q.Summary(),
		"questions":  view.Snapshot.Data().Public(),
	})
}

// SubmitQuiz scores the answers against the referenced view and records the attempt
func SubmitQuiz(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	quizID := c.Locals("quizID").(uint)
	reqData, ok := c.Locals("validatedSubmission").(*chapterValidator.SubmitRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	now := time.Now()

	q, ok := gateQuiz(c, user, quizID, now)
	if !ok {
		return nil
	}

	viewID, err := uuid.Parse(reqData.ViewID)
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"view_id": "Invalid view_id!"})
	}

	db := database.Database.Db
	attempt, err := ledger.RecordAttempt(db, ledger.Submission{
		UserID:           user.ID,
		Quiz:             q,
		ViewID:           viewID,
		Answers:          reqData.Positions,
		TimeTakenSeconds: reqData.TimeTakenSeconds,
		SubmittedAt:      now,
	})
	if err != nil {
		return shared.EngineError(c, err)
	}

	if attempt.Passed {
		if _, err := utils.RecomputeChapterProgress(db, user.ID, q.ChapterID, now); err != nil {
			log.Printf("Error updating progress of user %d chapter %d: %v", user.ID, q.ChapterID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", attemptResult(attempt))
}

func attemptResult(a *chapter.QuizAttempt) fiber.Map {
	return fiber.Map{
		"attempt":   a.Summary(),
		"breakdown": a.Breakdown.Data(),
	}
}

// GetAttempt returns one of the caller's attempts with the answer review
func GetAttempt(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	attemptID := c.Locals("attemptID").(uint)

	attempt, err := ledger.GetAttempt(database.Database.Db, user.ID, attemptID)
	if err != nil {
		return shared.EngineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully!", attemptResult(attempt))
}

// GetQuizAttempts lists the caller's attempt history for a quiz
func GetQuizAttempts(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	quizID := c.Locals("quizID").(uint)

	attempts, err := ledger.ListAttempts(database.Database.Db, user.ID, quizID)
	if err != nil {
		return shared.EngineError(c, err)
	}

	summaries := make([]chapter.AttemptSummary, len(attempts))
	best := 0.0
	passed := false
	for i, a := range attempts {
		summaries[i] = a.Summary()
		if a.Percentage > best {
			best = a.Percentage
		}
		passed = passed || a.Passed
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts":        summaries,
		"total_attempts":  len(attempts),
		"best_percentage": best,
		"passed":          passed,
	})
}
