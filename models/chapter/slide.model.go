package chapter

import (
	"encoding/json"
	"fmt"

	"lms/validators/common"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Slide types
const (
	SlideText  = "text"
	SlideImage = "image"
	SlideVideo = "video"
	SlideList  = "list"
)

// Slide is one ordered page of a chapter. Body holds the type-specific payload.
type Slide struct {
	gorm.Model
	ChapterID   uint           `json:"chapter_id" gorm:"index;not null"`
	OrderIndex  int            `json:"order_index" gorm:"default:0"`
	Type        string         `json:"type" gorm:"type:varchar(20);default:'text'"`
	Title       string         `json:"title"`
	Body        datatypes.JSON `json:"body"`
	IsPublished bool           `json:"is_published" gorm:"default:false"`
	IsDeleted   bool           `json:"-" gorm:"default:false"`
}

type TextBody struct {
	Markdown string `json:"markdown" validate:"required"`
}

type ImageBody struct {
	URL     string `json:"url" validate:"required,url"`
	Caption string `json:"caption" validate:"max=500"`
}

type VideoBody struct {
	URL             string `json:"url" validate:"required,url"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
}

type ListBody struct {
	Items []string `json:"items" validate:"required,min=1,dive,required"`
}

// DecodeSlideBody parses raw into the variant for slideType and validates it.
// The returned JSON is re-encoded from the variant so unknown keys are dropped.
func DecodeSlideBody(slideType string, raw json.RawMessage) (datatypes.JSON, error) {
	var body interface{}
	switch slideType {
	case SlideText:
		body = &TextBody{}
	case SlideImage:
		body = &ImageBody{}
	case SlideVideo:
		body = &VideoBody{}
	case SlideList:
		body = &ListBody{}
	default:
		return nil, fmt.Errorf("unknown slide type %q", slideType)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("body is required for %s slides", slideType)
	}
	if err := json.Unmarshal(raw, body); err != nil {
		return nil, fmt.Errorf("body does not match %s slide: %w", slideType, err)
	}
	if err := common.Validator().Struct(body); err != nil {
		return nil, fmt.Errorf("invalid %s slide body: %w", slideType, err)
	}

	normalized, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(normalized), nil
}
