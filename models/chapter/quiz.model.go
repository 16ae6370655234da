package chapter

import (
	"time"

	"lms/quiz"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz stores its question set in canonical order; students only ever see shuffled views
type Quiz struct {
	gorm.Model
	ChapterID        uint                                `json:"chapter_id" gorm:"index;not null"`
	Title            string                              `json:"title"`
	Description      string                              `json:"description" gorm:"type:text"`
	OrderIndex       int                                 `json:"order_index" gorm:"default:0"`
	PassingScore     float64                             `json:"passing_score"` // percentage, 0-100
	TimeLimitSeconds *int                                `json:"time_limit_seconds"`
	IsActive         bool                                `json:"is_active"`
	IsPublished      bool                                `json:"is_published" gorm:"default:false"`
	PublishAt        *time.Time                          `json:"publish_at"`
	IsPremium        bool                                `json:"is_premium" gorm:"default:false"`
	Questions        datatypes.JSONType[[]quiz.Question] `json:"questions"`
	IsDeleted        bool                                `json:"-" gorm:"default:false"`
}

// AccessContent treats an inactive quiz as unpublished
func (q Quiz) AccessContent() quiz.Content {
	return quiz.Content{IsPublished: q.IsPublished && q.IsActive, PublishAt: q.PublishAt, IsPremium: q.IsPremium}
}

// QuestionCount is used in listings so the question set itself is never sent to students
func (q Quiz) QuestionCount() int {
	return len(q.Questions.Data())
}

// QuizSummary is the student-facing listing row of a quiz
type QuizSummary struct {
	ID               uint       `json:"id"`
	ChapterID        uint       `json:"chapter_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	OrderIndex       int        `json:"order_index"`
	PassingScore     float64    `json:"passing_score"`
	TimeLimitSeconds *int       `json:"time_limit_seconds"`
	IsPremium        bool       `json:"is_premium"`
	PublishAt        *time.Time `json:"publish_at"`
	QuestionCount    int        `json:"question_count"`
}

func (q Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:               q.ID,
		ChapterID:        q.ChapterID,
		Title:            q.Title,
		Description:      q.Description,
		OrderIndex:       q.OrderIndex,
		PassingScore:     q.PassingScore,
		TimeLimitSeconds: q.TimeLimitSeconds,
		IsPremium:        q.IsPremium,
		PublishAt:        q.PublishAt,
		QuestionCount:    q.QuestionCount(),
	}
}
