package chapterRoutes

import (
	controllers "lms/controllers/chapter"
	"lms/middleware"
	validators "lms/validators/chapter"

	"github.com/gofiber/fiber/v2"
)

// SetupChapterRoutes sets up all student-facing chapter and quiz routes
func SetupChapterRoutes(app *fiber.App) {
	chapterGroup := app.Group("/chapter", middleware.JWTMiddleware)

	chapterGroup.Get("/list", controllers.GetChapterList)
	chapterGroup.Get("/:id", validators.ChapterID(), controllers.GetChapterDetails)
	chapterGroup.Get("/:id/progress", validators.ChapterID(), controllers.GetChapterProgress)
	chapterGroup.Post("/:chapter_id/slide/:slide_id/complete", validators.SlideCompletion(), controllers.MarkSlideComplete)

	quizGroup := app.Group("/quiz", middleware.JWTMiddleware)

	// Registered before /:id so "attempt" is not parsed as a quiz ID
	quizGroup.Get("/attempt/:id", validators.ContentID("attemptID", "Attempt ID"), controllers.GetAttempt)
	quizGroup.Get("/:id", validators.ContentID("quizID", "Quiz ID"), controllers.StartQuiz)
	quizGroup.Post("/:id/submit", middleware.SubmitRateLimiter(), validators.SubmitQuiz(), controllers.SubmitQuiz)
	quizGroup.Get("/:id/attempts", validators.ContentID("quizID", "Quiz ID"), controllers.GetQuizAttempts)
}
