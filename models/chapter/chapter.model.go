package chapter

import (
	"time"

	"lms/quiz"

	"gorm.io/gorm"
)

// Chapter is an ordered unit of slides and quizzes
type Chapter struct {
	gorm.Model
	Title        string     `json:"title"`
	Description  string     `json:"description" gorm:"type:text"`
	ThumbnailURL string     `json:"thumbnail_url"`
	OrderIndex   int        `json:"order_index" gorm:"default:0;index"`
	IsPublished  bool       `json:"is_published" gorm:"default:false"`
	PublishAt    *time.Time `json:"publish_at"` // nil means live as soon as published
	IsPremium    bool       `json:"is_premium" gorm:"default:false"`
	IsDeleted    bool       `json:"-" gorm:"default:false"`
}

// AccessContent is the chapter as seen by the access gate
func (c Chapter) AccessContent() quiz.Content {
	return quiz.Content{IsPublished: c.IsPublished, PublishAt: c.PublishAt, IsPremium: c.IsPremium}
}
