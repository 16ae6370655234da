package chapterValidator

import (
	"encoding/json"
	"strings"
	"time"

	"lms/middleware"
	"lms/models/chapter"
	"lms/validators/common"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// ============ Chapter Validators ============

type ChapterRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	OrderIndex   int    `json:"order_index" validate:"gte=0"`
	IsPremium    bool   `json:"is_premium"`
}

type PublishRequest struct {
	IsPublished bool       `json:"is_published"`
	PublishAt   *time.Time `json:"publish_at"`
}

// ChapterID validates the :id param of chapter routes
func ChapterID() fiber.Handler {
	return idParam("id", "chapterID", "Chapter ID")
}

func CreateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChapterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if errors := common.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChapter", reqData)
		return c.Next()
	}
}

func UpdateChapter() fiber.Handler {
	create := CreateChapter()
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Chapter ID!", nil)
		}
		c.Locals("chapterID", id)
		return create(c)
	}
}

// Publish validates publish/unpublish/schedule requests of any content type
func Publish(label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+" ID!", nil)
		}

		reqData := new(PublishRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.PublishAt != nil && !reqData.IsPublished {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"publish_at": "publish_at can only be set when is_published is true!",
			})
		}

		c.Locals("contentID", id)
		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}

// ============ Slide Validators ============

type SlideRequest struct {
	Type        string          `json:"type" validate:"required,oneof=text image video list"`
	Title       string          `json:"title" validate:"max=200"`
	OrderIndex  int             `json:"order_index" validate:"gte=0"`
	Body        json.RawMessage `json:"body"`
	IsPublished bool            `json:"is_published"`

	// Normalized body, set by the validator
	Decoded datatypes.JSON `json:"-"`
}

func CreateSlide() fiber.Handler {
	return slide("id", "Chapter ID", "chapterID")
}

func UpdateSlide() fiber.Handler {
	return slide("id", "Slide ID", "slideID")
}

func slide(param, label, local string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, param)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		}

		reqData := new(SlideRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Type = strings.ToLower(strings.TrimSpace(reqData.Type))
		reqData.Title = strings.TrimSpace(reqData.Title)

		errors := common.Struct(reqData)
		if _, bad := errors["type"]; !bad {
			body, err := chapter.DecodeSlideBody(reqData.Type, reqData.Body)
			if err != nil {
				errors["body"] = err.Error()
			}
			reqData.Decoded = body
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(local, id)
		c.Locals("validatedSlide", reqData)
		return c.Next()
	}
}

// SlideCompletion validates POST /chapter/:chapter_id/slide/:slide_id/complete
func SlideCompletion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chapterID, ok := common.ParamID(c, "chapter_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Chapter ID!", nil)
		}
		slideID, ok := common.ParamID(c, "slide_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Slide ID!", nil)
		}

		c.Locals("chapterID", chapterID)
		c.Locals("slideID", slideID)
		return c.Next()
	}
}

// ============ Shared ============

// ContentID validates a numeric :id param and stores it under local
func ContentID(local, label string) fiber.Handler {
	return idParam("id", local, label)
}

func idParam(param, local, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, param)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		}
		c.Locals(local, id)
		return c.Next()
	}
}
