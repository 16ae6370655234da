package chapterController

import (
	"errors"
	"log"
	"time"

	"lms/controllers/shared"
	"lms/database"
	"lms/middleware"
	"lms/models/chapter"
	"lms/quiz"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetChapterList lists published chapters with the caller's access decision
// and progress for each
func GetChapterList(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}

	chapters, err := loadPublishedChapters(c.UserContext())
	if err != nil {
		log.Printf("Error loading chapters: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapters!", nil)
	}

	var progress []chapter.ChapterProgress
	database.Database.Db.Where("user_id = ?", user.ID).Find(&progress)
	progressByChapter := make(map[uint]chapter.ChapterProgress, len(progress))
	for _, p := range progress {
		progressByChapter[p.ChapterID] = p
	}

	now := time.Now()
	ent := user.Entitlement()

	type chapterItem struct {
		chapter.Chapter
		Access   quiz.Decision `json:"access"`
		Status   string        `json:"progress_status"`
		Progress float64       `json:"progress"`
	}

	items := make([]chapterItem, len(chapters))
	for i, ch := range chapters {
		item := chapterItem{
			Chapter: ch,
			Access:  quiz.CanAccess(ch.AccessContent(), ent, now),
			Status:  chapter.ProgressNotStarted,
		}
		if p, found := progressByChapter[ch.ID]; found {
			item.Status = p.Status
			item.Progress = p.Progress
		}
		items[i] = item
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapters fetched successfully!", items)
}

// GetChapterDetails returns slides and quizzes of an accessible chapter
func GetChapterDetails(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	chapterID := c.Locals("chapterID").(uint)

	detail, err := loadChapterDetail(c.UserContext(), chapterID)
	if errors.Is(err, errNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}
	if err != nil {
		log.Printf("Error loading chapter %d: %v", chapterID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapter!", nil)
	}

	now := time.Now()
	ent := user.Entitlement()

	decision := quiz.CanAccess(detail.Chapter.AccessContent(), ent, now)
	if !decision.Allowed {
		return shared.AccessDenied(c, decision)
	}

	type quizItem struct {
		chapter.QuizSummary
		Access quiz.Decision `json:"access"`
	}
	quizzes := make([]quizItem, len(detail.Quizzes))
	for i, q := range detail.Quizzes {
		content := quiz.Content{IsPublished: true, PublishAt: q.PublishAt, IsPremium: q.IsPremium}
		quizzes[i] = quizItem{
			QuizSummary: q,
			Access:      quiz.CanAccessAll(ent, now, detail.Chapter.AccessContent(), content),
		}
	}

	var completed []uint
	database.Database.Db.Model(&chapter.SlideCompletion{}).
		Where("user_id = ? AND chapter_id = ?", user.ID, chapterID).
		Pluck("slide_id", &completed)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter fetched successfully!", fiber.Map{
		"chapter":          detail.Chapter,
		"slides":           detail.Slides,
		"quizzes":          quizzes,
		"completed_slides": completed,
	})
}

// MarkSlideComplete records a completed slide and refreshes chapter progress
func MarkSlideComplete(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	chapterID := c.Locals("chapterID").(uint)
	slideID := c.Locals("slideID").(uint)

	detail, err := loadChapterDetail(c.UserContext(), chapterID)
	if errors.Is(err, errNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}
	if err != nil {
		log.Printf("Error loading chapter %d: %v", chapterID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapter!", nil)
	}

	now := time.Now()
	if decision := quiz.CanAccess(detail.Chapter.AccessContent(), user.Entitlement(), now); !decision.Allowed {
		return shared.AccessDenied(c, decision)
	}

	found := false
	for _, s := range detail.Slides {
		if s.ID == slideID {
			found = true
			break
		}
	}
	if !found {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Slide not found!", nil)
	}

	db := database.Database.Db
	completion := chapter.SlideCompletion{UserID: user.ID, ChapterID: chapterID, SlideID: slideID}
	if err := db.Create(&completion).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Slide already marked as completed!", nil)
		}
		log.Printf("Error saving slide completion: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark slide as completed!", nil)
	}

	progress, err := utils.RecomputeChapterProgress(db, user.ID, chapterID, now)
	if err != nil {
		log.Printf("Error updating progress of user %d chapter %d: %v", user.ID, chapterID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Slide marked as completed successfully!", fiber.Map{
		"completion": completion,
		"progress":   progress,
	})
}

// GetChapterProgress recounts and returns the caller's progress in a chapter
func GetChapterProgress(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	chapterID := c.Locals("chapterID").(uint)

	detail, err := loadChapterDetail(c.UserContext(), chapterID)
	if errors.Is(err, errNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}
	if err != nil {
		log.Printf("Error loading chapter %d: %v", chapterID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapter!", nil)
	}

	now := time.Now()
	if decision := quiz.CanAccess(detail.Chapter.AccessContent(), user.Entitlement(), now); !decision.Allowed {
		return shared.AccessDenied(c, decision)
	}

	progress, err := utils.RecomputeChapterProgress(database.Database.Db, user.ID, chapterID, now)
	if err != nil {
		log.Printf("Error computing progress of user %d chapter %d: %v", user.ID, chapterID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}
