// Package ledger persists quiz views and the append-only attempt history.
package ledger

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lms/models"
	"lms/models/chapter"
	"lms/quiz"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxAttemptRetries bounds how often a submission is retried after losing
// the attempt-number race.
const MaxAttemptRetries = 3

// TimeLimitGrace is added to a quiz time limit to absorb network latency
const TimeLimitGrace = 30 * time.Second

var (
	ErrViewNotFound            = errors.New("quiz view not found")
	ErrViewSubmitted           = errors.New("quiz view already submitted")
	ErrViewExpired             = errors.New("quiz view expired")
	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrDuplicateSubmissionRace = errors.New("attempt number conflict, retry the submission")
)

// CreateView shuffles the quiz for userID and stores the snapshot the
// submission will be scored against. A quiz time limit shortens ttl.
func CreateView(db *gorm.DB, shuffler quiz.Shuffler, userID uint, q *chapter.Quiz, ttl time.Duration, now time.Time) (*chapter.QuizView, error) {
	questions := q.Questions.Data()
	if err := quiz.ValidateSet(questions); err != nil {
		return nil, err
	}

	if q.TimeLimitSeconds != nil && *q.TimeLimitSeconds > 0 {
		if limit := time.Duration(*q.TimeLimitSeconds)*time.Second + TimeLimitGrace; limit < ttl {
			ttl = limit
		}
	}

	view := chapter.QuizView{
		UserID:    userID,
		QuizID:    q.ID,
		Snapshot:  datatypes.NewJSONType(shuffler.Shuffle(questions)),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := db.Create(&view).Error; err != nil {
		return nil, err
	}
	return &view, nil
}

// Submission is one student's answer set for a view.
type Submission struct {
	UserID           uint
	Quiz             *chapter.Quiz
	ViewID           uuid.UUID
	Answers          quiz.Answers
	TimeTakenSeconds *int
	SubmittedAt      time.Time
}

// RecordAttempt scores the submission against its stored view and appends
// it to the user's history for the quiz.
func RecordAttempt(db *gorm.DB, sub Submission) (*chapter.QuizAttempt, error) {
	for try := 1; try <= MaxAttemptRetries; try++ {
		attempt, err := recordOnce(db, sub)
		if err == nil {
			return attempt, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		log.Printf("[ATTEMPT-LEDGER] attempt number conflict for user %d quiz %d (try %d/%d)", sub.UserID, sub.Quiz.ID, try, MaxAttemptRetries)
	}
	return nil, ErrDuplicateSubmissionRace
}

func recordOnce(db *gorm.DB, sub Submission) (*chapter.QuizAttempt, error) {
	var attempt chapter.QuizAttempt

	err := db.Transaction(func(tx *gorm.DB) error {
		// Serializes concurrent submissions of the same user
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&user, sub.UserID).Error; err != nil {
			return fmt.Errorf("lock user %d: %w", sub.UserID, err)
		}

		var view chapter.QuizView
		err := tx.Where("id = ? AND user_id = ? AND quiz_id = ?", sub.ViewID, sub.UserID, sub.Quiz.ID).First(&view).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrViewNotFound
		}
		if err != nil {
			return err
		}
		if view.SubmittedAt != nil {
			return ErrViewSubmitted
		}
		if !sub.SubmittedAt.Before(view.ExpiresAt) {
			return ErrViewExpired
		}

		snapshot := view.Snapshot.Data()
		result, err := quiz.Score(snapshot, sub.Answers, sub.Quiz.PassingScore)
		if err != nil {
			return err
		}

		number, err := NextAttemptNumber(tx, sub.UserID, sub.Quiz.ID)
		if err != nil {
			return err
		}

		attempt = chapter.QuizAttempt{
			UserID:           sub.UserID,
			QuizID:           sub.Quiz.ID,
			AttemptNumber:    number,
			ChapterID:        sub.Quiz.ChapterID,
			ViewID:           view.ID,
			Answers:          datatypes.NewJSONType(sub.Answers),
			Snapshot:         datatypes.NewJSONType(snapshot),
			Breakdown:        datatypes.NewJSONType(result.Breakdown),
			Score:            result.Score,
			TotalQuestions:   result.TotalQuestions,
			Percentage:       result.Percentage,
			PassingScore:     result.PassingScore,
			Passed:           result.Passed,
			TimeTakenSeconds: sub.TimeTakenSeconds,
			CreatedAt:        sub.SubmittedAt,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		res := tx.Model(&chapter.QuizView{}).
			Where("id = ? AND submitted_at IS NULL", view.ID).
			Update("submitted_at", sub.SubmittedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrViewSubmitted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// NextAttemptNumber is 1 + the highest recorded attempt number.
func NextAttemptNumber(db *gorm.DB, userID, quizID uint) (int, error) {
	var highest int
	err := db.Model(&chapter.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&highest).Error
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}

// GetAttempt only returns attempts owned by userID.
func GetAttempt(db *gorm.DB, userID, attemptID uint) (*chapter.QuizAttempt, error) {
	var attempt chapter.QuizAttempt
	err := db.Where("id = ? AND user_id = ?", attemptID, userID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// ListAttempts returns the user's history for a quiz, oldest first.
func ListAttempts(db *gorm.DB, userID, quizID uint) ([]chapter.QuizAttempt, error) {
	var attempts []chapter.QuizAttempt
	err := db.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number asc").
		Find(&attempts).Error
	return attempts, err
}
