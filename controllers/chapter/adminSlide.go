package chapterController

import (
	"log"

	"lms/cache"
	"lms/database"
	"lms/middleware"
	"lms/models/chapter"
	chapterValidator "lms/validators/chapter"

	"github.com/gofiber/fiber/v2"
)

func AdminCreateSlide(c *fiber.Ctx) error {
	chapterID := c.Locals("chapterID").(uint)
	reqData, ok := c.Locals("validatedSlide").(*chapterValidator.SlideRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var count int64
	db.Model(&chapter.Chapter{}).Where("id = ? AND is_deleted = ?", chapterID, false).Count(&count)
	if count == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	slide := chapter.Slide{
		ChapterID:   chapterID,
		OrderIndex:  reqData.OrderIndex,
		Type:        reqData.Type,
		Title:       reqData.Title,
		Body:        reqData.Decoded,
		IsPublished: reqData.IsPublished,
	}
	if err := db.Create(&slide).Error; err != nil {
		log.Printf("Error creating slide: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create slide!", nil)
	}

	cache.InvalidateChapterDetail(c.UserContext(), cache.Default, chapterID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Slide created successfully!", slide)
}

func AdminUpdateSlide(c *fiber.Ctx) error {
	slideID := c.Locals("slideID").(uint)
	reqData, ok := c.Locals("validatedSlide").(*chapterValidator.SlideRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var slide chapter.Slide
	if err := db.Where("id = ? AND is_deleted = ?", slideID, false).First(&slide).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Slide not found!", nil)
	}

	err := db.Model(&slide).Updates(map[string]interface{}{
		"order_index":  reqData.OrderIndex,
		"type":         reqData.Type,
		"title":        reqData.Title,
		"body":         reqData.Decoded,
		"is_published": reqData.IsPublished,
	}).Error
	if err != nil {
		log.Printf("Error updating slide %d: %v", slideID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update slide!", nil)
	}

	cache.InvalidateChapterDetail(c.UserContext(), cache.Default, slide.ChapterID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Slide updated successfully!", slide)
}

func AdminDeleteSlide(c *fiber.Ctx) error {
	slideID := c.Locals("slideID").(uint)
	db := database.Database.Db

	var slide chapter.Slide
	if err := db.Where("id = ? AND is_deleted = ?", slideID, false).First(&slide).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Slide not found!", nil)
	}
	if err := db.Model(&slide).Update("is_deleted", true).Error; err != nil {
		log.Printf("Error deleting slide %d: %v", slideID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete slide!", nil)
	}

	cache.InvalidateChapterDetail(c.UserContext(), cache.Default, slide.ChapterID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Slide deleted successfully!", nil)
}

// AdminPublishSlide toggles slide visibility. Slides have no schedule of their own.
func AdminPublishSlide(c *fiber.Ctx) error {
	slideID := c.Locals("contentID").(uint)
	reqData := c.Locals("validatedPublish").(*chapterValidator.PublishRequest)
	if reqData.PublishAt != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"publish_at": "Slides cannot be scheduled, schedule the chapter instead!",
		})
	}

	db := database.Database.Db
	var slide chapter.Slide
	if err := db.Where("id = ? AND is_deleted = ?", slideID, false).First(&slide).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Slide not found!", nil)
	}
	if err := db.Model(&slide).Update("is_published", reqData.IsPublished).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update slide status!", nil)
	}

	cache.InvalidateChapterDetail(c.UserContext(), cache.Default, slide.ChapterID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, publishMessage("Slide", reqData), slide)
}
