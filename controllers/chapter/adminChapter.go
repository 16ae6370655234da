package chapterController

import (
	"log"

	"lms/cache"
	"lms/database"
	"lms/middleware"
	"lms/models/chapter"
	chapterValidator "lms/validators/chapter"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateChapter creates a draft chapter
func AdminCreateChapter(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedChapter").(*chapterValidator.ChapterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ch := chapter.Chapter{
		Title:        reqData.Title,
		Description:  reqData.Description,
		ThumbnailURL: reqData.ThumbnailURL,
		OrderIndex:   reqData.OrderIndex,
		IsPremium:    reqData.IsPremium,
	}
	if err := database.Database.Db.Create(&ch).Error; err != nil {
		log.Printf("Error creating chapter: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create chapter!", nil)
	}

	// Drafts are not listed, nothing to invalidate
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", ch)
}

func AdminUpdateChapter(c *fiber.Ctx) error {
	chapterID := c.Locals("chapterID").(uint)
	reqData, ok := c.Locals("validatedChapter").(*chapterValidator.ChapterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var ch chapter.Chapter
	if err := db.Where("id = ? AND is_deleted = ?", chapterID, false).First(&ch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	updates := map[string]interface{}{
		"title":         reqData.Title,
		"description":   reqData.Description,
		"thumbnail_url": reqData.ThumbnailURL,
		"order_index":   reqData.OrderIndex,
		"is_premium":    reqData.IsPremium,
	}
	if err := db.Model(&ch).Updates(updates).Error; err != nil {
		log.Printf("Error updating chapter %d: %v", chapterID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update chapter!", nil)
	}

	cache.InvalidateChapter(c.UserContext(), cache.Default, chapterID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter updated successfully!", ch)
}

// AdminDeleteChapter soft deletes the chapter with its slides and quizzes
func AdminDeleteChapter(c *fiber.Ctx) error {
	chapterID := c.Locals("chapterID").(uint)
	db := database.Database.Db

	var ch chapter.Chapter
	if err := db.Where("id = ? AND is_deleted = ?", chapterID, false).First(&ch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	var quizIDs []uint
	db.Model(&chapter.Quiz{}).Where("chapter_id = ? AND is_deleted = ?", chapterID, false).Pluck("id", &quizIDs)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ch).Update("is_deleted", true).Error; err != nil {
			return err
		}
		if err := tx.Model(&chapter.Slide{}).Where("chapter_id = ?", chapterID).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&chapter.Quiz{}).Where("chapter_id = ?", chapterID).Update("is_deleted", true).Error
	})
	if err != nil {
		log.Printf("Error deleting chapter %d: %v", chapterID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete chapter!", nil)
	}

	ctx := c.UserContext()
	cache.InvalidateChapter(ctx, cache.Default, chapterID)
	for _, id := range quizIDs {
		cache.InvalidateQuiz(ctx, cache.Default, id, chapterID)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter deleted successfully!", nil)
}

// AdminGetAllChapters lists every chapter including drafts
func AdminGetAllChapters(c *fiber.Ctx) error {
	db := database.Database.Db

	var chapters []chapter.Chapter
	if err := db.Where("is_deleted = ?", false).Order("order_index asc, id asc").Find(&chapters).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapters!", nil)
	}

	type counts struct {
		ChapterID uint
		Total     int64
	}
	slideCounts := map[uint]int64{}
	quizCounts := map[uint]int64{}

	var rows []counts
	db.Model(&chapter.Slide{}).Select("chapter_id, COUNT(*) AS total").
		Where("is_deleted = ?", false).Group("chapter_id").Scan(&rows)
	for _, r := range rows {
		slideCounts[r.ChapterID] = r.Total
	}
	rows = nil
	db.Model(&chapter.Quiz{}).Select("chapter_id, COUNT(*) AS total").
		Where("is_deleted = ?", false).Group("chapter_id").Scan(&rows)
	for _, r := range rows {
		quizCounts[r.ChapterID] = r.Total
	}

	result := make([]fiber.Map, len(chapters))
	for i, ch := range chapters {
		result[i] = fiber.Map{
			"chapter":     ch,
			"slide_count": slideCounts[ch.ID],
			"quiz_count":  quizCounts[ch.ID],
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapters fetched successfully!", result)
}

// AdminGetChapterDetails includes draft slides and quizzes with answer keys
func AdminGetChapterDetails(c *fiber.Ctx) error {
	chapterID := c.Locals("chapterID").(uint)
	db := database.Database.Db

	var ch chapter.Chapter
	if err := db.Where("id = ? AND is_deleted = ?", chapterID, false).First(&ch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	var slides []chapter.Slide
	db.Where("chapter_id = ? AND is_deleted = ?", chapterID, false).Order("order_index asc, id asc").Find(&slides)

	var quizzes []chapter.Quiz
	db.Where("chapter_id = ? AND is_deleted = ?", chapterID, false).Order("order_index asc, id asc").Find(&quizzes)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter fetched successfully!", fiber.Map{
		"chapter": ch,
		"slides":  slides,
		"quizzes": quizzes,
	})
}

// AdminPublishChapter publishes, schedules or unpublishes a chapter
func AdminPublishChapter(c *fiber.Ctx) error {
	chapterID := c.Locals("contentID").(uint)
	reqData := c.Locals("validatedPublish").(*chapterValidator.PublishRequest)
	db := database.Database.Db

	var ch chapter.Chapter
	if err := db.Where("id = ? AND is_deleted = ?", chapterID, false).First(&ch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	if err := db.Model(&ch).Updates(map[string]interface{}{
		"is_published": reqData.IsPublished,
		"publish_at":   reqData.PublishAt,
	}).Error; err != nil {
		log.Printf("Error publishing chapter %d: %v", chapterID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update chapter status!", nil)
	}

	cache.InvalidateChapter(c.UserContext(), cache.Default, chapterID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, publishMessage("Chapter", reqData), ch)
}

func publishMessage(label string, req *chapterValidator.PublishRequest) string {
	switch {
	case !req.IsPublished:
		return label + " unpublished successfully!"
	case req.PublishAt != nil:
		return label + " scheduled for " + req.PublishAt.UTC().Format("2006-01-02 15:04 MST") + "!"
	default:
		return label + " published successfully!"
	}
}
