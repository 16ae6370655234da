package chapterRoutes

import (
	controllers "lms/controllers/chapter"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/chapter"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminChapterRoutes sets up all admin content management routes
func SetupAdminChapterRoutes(app *fiber.App) {
	guard := []fiber.Handler{
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleAdmin),
		middleware.CheckPermissionMiddleware(models.PermManageContent),
	}

	// Chapter CRUD
	chapterGroup := app.Group("/admin/chapter", guard...)
	chapterGroup.Post("/create", validators.CreateChapter(), controllers.AdminCreateChapter)
	chapterGroup.Get("/list", controllers.AdminGetAllChapters)
	chapterGroup.Get("/:id", validators.ChapterID(), controllers.AdminGetChapterDetails)
	chapterGroup.Put("/:id", validators.UpdateChapter(), controllers.AdminUpdateChapter)
	chapterGroup.Delete("/:id", validators.ChapterID(), controllers.AdminDeleteChapter)
	chapterGroup.Post("/:id/publish", validators.Publish("Chapter"), controllers.AdminPublishChapter)

	// Slide Management
	chapterGroup.Post("/:id/slide", validators.CreateSlide(), controllers.AdminCreateSlide)

	slideGroup := app.Group("/admin/slide", guard...)
	slideGroup.Put("/:id", validators.UpdateSlide(), controllers.AdminUpdateSlide)
	slideGroup.Delete("/:id", validators.ContentID("slideID", "Slide ID"), controllers.AdminDeleteSlide)
	slideGroup.Post("/:id/publish", validators.Publish("Slide"), controllers.AdminPublishSlide)

	// Quiz Management
	chapterGroup.Post("/:id/quiz", validators.CreateQuiz(), controllers.AdminCreateQuiz)

	quizGroup := app.Group("/admin/quiz", guard...)
	quizGroup.Get("/:id", validators.ContentID("quizID", "Quiz ID"), controllers.AdminGetQuiz)
	quizGroup.Put("/:id", validators.UpdateQuiz(), controllers.AdminUpdateQuiz)
	quizGroup.Delete("/:id", validators.ContentID("quizID", "Quiz ID"), controllers.AdminDeleteQuiz)
	quizGroup.Post("/:id/publish", validators.Publish("Quiz"), controllers.AdminPublishQuiz)
}
