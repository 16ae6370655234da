package utils

import (
	"math"
	"time"

	"lms/models/chapter"

	"gorm.io/gorm"
)

// RecomputeChapterProgress recounts published slides and quizzes of the
// chapter against the user's completions and passed attempts.
func RecomputeChapterProgress(db *gorm.DB, userID, chapterID uint, now time.Time) (*chapter.ChapterProgress, error) {
	var totalSlides, completedSlides, totalQuizzes, passedQuizzes int64

	if err := db.Model(&chapter.Slide{}).
		Where("chapter_id = ? AND is_published = ? AND is_deleted = ?", chapterID, true, false).
		Count(&totalSlides).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&chapter.SlideCompletion{}).
		Joins("JOIN slides ON slides.id = slide_completions.slide_id").
		Where("slide_completions.user_id = ? AND slide_completions.chapter_id = ?", userID, chapterID).
		Where("slides.is_published = ? AND slides.is_deleted = ? AND slides.deleted_at IS NULL", true, false).
		Count(&completedSlides).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&chapter.Quiz{}).
		Where("chapter_id = ? AND is_published = ? AND is_active = ? AND is_deleted = ?", chapterID, true, true, false).
		Count(&totalQuizzes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&chapter.QuizAttempt{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.user_id = ? AND quizzes.chapter_id = ? AND quiz_attempts.passed = ?", userID, chapterID, true).
		Where("quizzes.is_published = ? AND quizzes.is_active = ? AND quizzes.is_deleted = ? AND quizzes.deleted_at IS NULL", true, true, false).
		Distinct("quiz_attempts.quiz_id").
		Count(&passedQuizzes).Error; err != nil {
		return nil, err
	}

	var progress chapter.ChapterProgress
	if err := db.Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		FirstOrInit(&progress, chapter.ChapterProgress{UserID: userID, ChapterID: chapterID}).Error; err != nil {
		return nil, err
	}

	progress.TotalSlides = int(totalSlides)
	progress.CompletedSlides = int(completedSlides)
	progress.TotalQuizzes = int(totalQuizzes)
	progress.PassedQuizzes = int(passedQuizzes)

	total := totalSlides + totalQuizzes
	done := completedSlides + passedQuizzes
	progress.Progress = 0
	if total > 0 {
		progress.Progress = math.Round(float64(done)/float64(total)*10000) / 100
	}

	switch {
	case total > 0 && done >= total:
		progress.Status = chapter.ProgressCompleted
		if progress.CompletedAt == nil {
			progress.CompletedAt = &now
		}
	case done > 0:
		progress.Status = chapter.ProgressInProgress
	default:
		progress.Status = chapter.ProgressNotStarted
	}

	if err := db.Save(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}
