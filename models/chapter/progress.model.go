package chapter

import (
	"time"

	"gorm.io/gorm"
)

// Chapter progress status values
const (
	ProgressNotStarted = "NOT_STARTED"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// SlideCompletion tracks a user's completion of a slide
type SlideCompletion struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_slide_completion"`
	ChapterID uint `json:"chapter_id" gorm:"not null;index"`
	SlideID   uint `json:"slide_id" gorm:"not null;uniqueIndex:idx_slide_completion"`
}

// ChapterProgress is recomputed after every completion or passed attempt
type ChapterProgress struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_chapter_progress"`
	ChapterID       uint       `json:"chapter_id" gorm:"not null;uniqueIndex:idx_chapter_progress"`
	Status          string     `json:"status" gorm:"default:'NOT_STARTED'"`
	Progress        float64    `json:"progress" gorm:"default:0"` // Completion percentage (0-100)
	CompletedSlides int        `json:"completed_slides" gorm:"default:0"`
	TotalSlides     int        `json:"total_slides" gorm:"default:0"`
	PassedQuizzes   int        `json:"passed_quizzes" gorm:"default:0"`
	TotalQuizzes    int        `json:"total_quizzes" gorm:"default:0"`
	CompletedAt     *time.Time `json:"completed_at"`
}
