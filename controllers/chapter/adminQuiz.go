package chapterController

import (
	"log"

	"lms/cache"
	"lms/database"
	"lms/middleware"
	"lms/models/chapter"
	chapterValidator "lms/validators/chapter"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const defaultPassingScore = 70

func AdminCreateQuiz(c *fiber.Ctx) error {
	chapterID := c.Locals("chapterID").(uint)
	reqData, ok := c.Locals("validatedQuiz").(*chapterValidator.QuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var count int64
	db.Model(&chapter.Chapter{}).Where("id = ? AND is_deleted = ?", chapterID, false).Count(&count)
	if count == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	q := chapter.Quiz{ChapterID: chapterID}
	applyQuizRequest(&q, reqData)
	if err := db.Create(&q).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	cache.InvalidateChapterDetail(c.UserContext(), cache.Default, chapterID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", q)
}

// AdminUpdateQuiz replaces the question set. Views already issued keep their snapshot.
func AdminUpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)
	reqData, ok := c.Locals("validatedQuiz").(*chapterValidator.QuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var q chapter.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	applyQuizRequest(&q, reqData)
	if err := db.Save(&q).Error; err != nil {
		log.Printf("Error updating quiz %d: %v", quizID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	cache.InvalidateQuiz(c.UserContext(), cache.Default, q.ID, q.ChapterID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", q)
}

func applyQuizRequest(q *chapter.Quiz, req *chapterValidator.QuizRequest) {
	q.Title = req.Title
	q.Description = req.Description
	q.OrderIndex = req.OrderIndex
	q.TimeLimitSeconds = req.TimeLimitSeconds
	q.IsPremium = req.IsPremium
	q.Questions = datatypes.NewJSONType(req.Questions)

	q.PassingScore = defaultPassingScore
	if req.PassingScore != nil {
		q.PassingScore = *req.PassingScore
	}
	q.IsActive = true
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}
}

func AdminDeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)
	db := database.Database.Db

	var q chapter.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if err := db.Model(&q).Update("is_deleted", true).Error; err != nil {
		log.Printf("Error deleting quiz %d: %v", quizID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	cache.InvalidateQuiz(c.UserContext(), cache.Default, q.ID, q.ChapterID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// AdminGetQuiz returns the quiz with its canonical question order and answer key
func AdminGetQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	var q chapter.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var attempts int64
	database.Database.Db.Model(&chapter.QuizAttempt{}).Where("quiz_id = ?", quizID).Count(&attempts)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":           q,
		"attempts_count": attempts,
	})
}

func AdminPublishQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("contentID").(uint)
	reqData := c.Locals("validatedPublish").(*chapterValidator.PublishRequest)
	db := database.Database.Db

	var q chapter.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&q).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if err := db.Model(&q).Updates(map[string]interface{}{
		"is_published": reqData.IsPublished,
		"publish_at":   reqData.PublishAt,
	}).Error; err != nil {
		log.Printf("Error publishing quiz %d: %v", quizID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz status!", nil)
	}

	cache.InvalidateQuiz(c.UserContext(), cache.Default, q.ID, q.ChapterID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, publishMessage("Quiz", reqData), q)
}
