package chapter

import (
	"time"

	"lms/quiz"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizView is a shuffled view handed to one student. The id is the opaque
// reference the submission must carry back.
type QuizView struct {
	ID          uuid.UUID                             `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID      uint                                  `json:"user_id" gorm:"not null;index"`
	QuizID      uint                                  `json:"quiz_id" gorm:"not null;index"`
	Snapshot    datatypes.JSONType[quiz.ShuffledView] `json:"-"`
	ExpiresAt   time.Time                             `json:"expires_at"`
	SubmittedAt *time.Time                            `json:"submitted_at"`
	CreatedAt   time.Time                             `json:"created_at"`
}

func (v *QuizView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// QuizAttempt is append-only: no UpdatedAt, no soft delete.
type QuizAttempt struct {
	ID               uint                                      `json:"id" gorm:"primaryKey"`
	UserID           uint                                      `json:"user_id" gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number"`
	QuizID           uint                                      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number;index"`
	AttemptNumber    int                                       `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number"`
	ChapterID        uint                                      `json:"chapter_id" gorm:"index"`
	ViewID           uuid.UUID                                 `json:"view_id" gorm:"type:varchar(36);uniqueIndex"`
	Answers          datatypes.JSONType[quiz.Answers]          `json:"answers"`
	Snapshot         datatypes.JSONType[quiz.ShuffledView]     `json:"snapshot"`
	Breakdown        datatypes.JSONType[[]quiz.QuestionResult] `json:"breakdown"`
	Score            int                                       `json:"score"`
	TotalQuestions   int                                       `json:"total_questions"`
	Percentage       float64                                   `json:"percentage"`
	PassingScore     float64                                   `json:"passing_score"`
	Passed           bool                                      `json:"passed"`
	TimeTakenSeconds *int                                      `json:"time_taken_seconds"`
	CreatedAt        time.Time                                 `json:"created_at" gorm:"index"`
}

// AttemptSummary omits the snapshot and answers
type AttemptSummary struct {
	ID               uint      `json:"id"`
	QuizID           uint      `json:"quiz_id"`
	AttemptNumber    int       `json:"attempt_number"`
	Score            int       `json:"score"`
	TotalQuestions   int       `json:"total_questions"`
	Percentage       float64   `json:"percentage"`
	Passed           bool      `json:"passed"`
	TimeTakenSeconds *int      `json:"time_taken_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

func (a QuizAttempt) Summary() AttemptSummary {
	return AttemptSummary{
		ID:               a.ID,
		QuizID:           a.QuizID,
		AttemptNumber:    a.AttemptNumber,
		Score:            a.Score,
		TotalQuestions:   a.TotalQuestions,
		Percentage:       a.Percentage,
		Passed:           a.Passed,
		TimeTakenSeconds: a.TimeTakenSeconds,
		CreatedAt:        a.CreatedAt,
	}
}
