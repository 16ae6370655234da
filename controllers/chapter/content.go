package chapterController

import (
	"context"
	"errors"

	"lms/cache"
	"lms/database"
	"lms/models/chapter"

	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// chapterDetail is the cached student view of a live chapter
type chapterDetail struct {
	Chapter chapter.Chapter       `json:"chapter"`
	Slides  []chapter.Slide       `json:"slides"`
	Quizzes []chapter.QuizSummary `json:"quizzes"`
}

// loadPublishedChapters lists published chapters, including scheduled ones
func loadPublishedChapters(ctx context.Context) ([]chapter.Chapter, error) {
	var chapters []chapter.Chapter
	err := cache.Remember(ctx, cache.Default, cache.ChapterListKey, &chapters, func() ([]chapter.Chapter, error) {
		var rows []chapter.Chapter
		err := database.Database.Db.
			Where("is_published = ? AND is_deleted = ?", true, false).
			Order("order_index asc, id asc").
			Find(&rows).Error
		return rows, err
	})
	return chapters, err
}

func loadChapterDetail(ctx context.Context, id uint) (*chapterDetail, error) {
	var detail chapterDetail
	err := cache.Remember(ctx, cache.Default, cache.ChapterKey(id), &detail, func() (chapterDetail, error) {
		db := database.Database.Db
		var d chapterDetail

		if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&d.Chapter).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return d, errNotFound
			}
			return d, err
		}
		if err := db.Where("chapter_id = ? AND is_published = ? AND is_deleted = ?", id, true, false).
			Order("order_index asc, id asc").
			Find(&d.Slides).Error; err != nil {
			return d, err
		}

		var quizzes []chapter.Quiz
		if err := db.Where("chapter_id = ? AND is_published = ? AND is_active = ? AND is_deleted = ?", id, true, true, false).
			Order("order_index asc, id asc").
			Find(&quizzes).Error; err != nil {
			return d, err
		}
		d.Quizzes = make([]chapter.QuizSummary, len(quizzes))
		for i, q := range quizzes {
			d.Quizzes[i] = q.Summary()
		}
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// loadQuiz returns the full quiz definition, answer key included
func loadQuiz(ctx context.Context, id uint) (*chapter.Quiz, error) {
	var q chapter.Quiz
	err := cache.Remember(ctx, cache.Default, cache.QuizKey(id), &q, func() (chapter.Quiz, error) {
		var row chapter.Quiz
		err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, errNotFound
		}
		return row, err
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}
