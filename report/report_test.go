package report

import (
	"fmt"
	"testing"
	"time"

	"lms/database"
	"lms/models"
	"lms/models/chapter"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db             *gorm.DB
	alice, bob     models.User
	ch             chapter.Chapter
	quiz1, quiz2   chapter.Quiz
	attemptNumbers map[string]int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)

	f := &fixture{db: db, attemptNumbers: map[string]int{}}
	f.alice = models.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	f.bob = models.User{Name: "Bob", Email: "bob@example.com", Password: "x"}
	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	for _, u := range []*models.User{&f.alice, &f.bob, &admin} {
		require.NoError(t, db.Create(u).Error)
	}

	f.ch = chapter.Chapter{Title: "Basics", IsPublished: true}
	require.NoError(t, db.Create(&f.ch).Error)
	f.quiz1 = chapter.Quiz{ChapterID: f.ch.ID, Title: "Quiz one"}
	f.quiz2 = chapter.Quiz{ChapterID: f.ch.ID, Title: "Quiz two"}
	require.NoError(t, db.Create(&f.quiz1).Error)
	require.NoError(t, db.Create(&f.quiz2).Error)
	return f
}

func (f *fixture) attempt(t *testing.T, user models.User, q chapter.Quiz, pct float64, seconds int, at time.Time) {
	t.Helper()
	key := fmt.Sprintf("%d/%d", user.ID, q.ID)
	f.attemptNumbers[key]++
	a := chapter.QuizAttempt{
		UserID:           user.ID,
		QuizID:           q.ID,
		ChapterID:        q.ChapterID,
		AttemptNumber:    f.attemptNumbers[key],
		ViewID:           uuid.New(),
		Percentage:       pct,
		Passed:           pct >= 70,
		TimeTakenSeconds: &seconds,
		CreatedAt:        at,
	}
	require.NoError(t, f.db.Create(&a).Error)
}

func (f *fixture) completeSlide(t *testing.T, user models.User, at time.Time) {
	t.Helper()
	slide := chapter.Slide{ChapterID: f.ch.ID, Type: chapter.SlideText, IsPublished: true}
	require.NoError(t, f.db.Create(&slide).Error)
	completion := chapter.SlideCompletion{UserID: user.ID, ChapterID: f.ch.ID, SlideID: slide.ID}
	completion.CreatedAt = at
	require.NoError(t, f.db.Create(&completion).Error)
}

func seedActivity(t *testing.T, f *fixture) {
	t.Helper()
	mon := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	tue := time.Date(2026, 5, 5, 9, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

	f.attempt(t, f.alice, f.quiz1, 60, 30, mon)
	f.attempt(t, f.alice, f.quiz1, 100, 20, tue)
	f.attempt(t, f.alice, f.quiz2, 80, 40, lastMonth)
	f.completeSlide(t, f.alice, tue)
	f.completeSlide(t, f.alice, lastMonth)
}

func TestStudentsWeeklySummary(t *testing.T) {
	f := newFixture(t)
	seedActivity(t, f)

	w, err := ParseWindow(WindowWeek, "", "", wed, time.UTC)
	require.NoError(t, err)

	rows, total, err := Students(f.db, w, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)

	alice := rows[0]
	assert.Equal(t, f.alice.ID, alice.UserID)
	assert.Equal(t, 2, alice.Attempts)
	assert.Equal(t, 1, alice.DistinctQuizzes)
	assert.Equal(t, 1, alice.PassedAttempts)
	assert.Equal(t, 50.0, alice.PassRate)
	assert.Equal(t, 80.0, alice.AveragePercent)
	assert.Equal(t, 100.0, alice.BestPercent)
	assert.Equal(t, 50, alice.TotalTimeSeconds)
	assert.Equal(t, 1, alice.SlidesCompleted)

	bob := rows[1]
	assert.Equal(t, f.bob.ID, bob.UserID)
	assert.Zero(t, bob.Attempts)
	assert.Zero(t, bob.PassRate)
}

func TestStudentsPaginates(t *testing.T) {
	f := newFixture(t)

	rows, total, err := Students(f.db, Window{Kind: WindowAll, To: wed}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 1)
	assert.Equal(t, f.bob.ID, rows[0].UserID)

	rows, _, err = Students(f.db, Window{Kind: WindowAll, To: wed}, 3, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStudentDetailBreakdown(t *testing.T) {
	f := newFixture(t)
	seedActivity(t, f)

	detail, err := Student(f.db, f.alice.ID, Window{Kind: WindowAll, To: wed})
	require.NoError(t, err)
	assert.Equal(t, 3, detail.Attempts)
	assert.Equal(t, 2, detail.DistinctQuizzes)
	assert.Equal(t, 2, detail.SlidesCompleted)

	require.Len(t, detail.Quizzes, 2)
	first := detail.Quizzes[0]
	assert.Equal(t, f.quiz1.ID, first.QuizID)
	assert.Equal(t, "Quiz one", first.QuizTitle)
	assert.Equal(t, 2, first.Attempts)
	assert.Equal(t, 100.0, first.BestPercent)
	assert.Equal(t, 100.0, first.LastPercent)
	assert.True(t, first.Passed)

	second := detail.Quizzes[1]
	assert.Equal(t, f.quiz2.ID, second.QuizID)
	assert.Equal(t, 1, second.Attempts)
	assert.Equal(t, 80.0, second.LastPercent)
}

func TestStudentDetailUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := Student(f.db, 999, Window{Kind: WindowAll, To: wed})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	seedActivity(t, f)
	f.attempt(t, f.bob, f.quiz1, 90, 10, time.Date(2026, 5, 6, 8, 0, 0, 0, time.UTC))

	future := wed.Add(24 * time.Hour)
	require.NoError(t, f.db.Model(&f.bob).Updates(map[string]interface{}{
		"is_premium": true, "premium_expires_at": future,
	}).Error)
	require.NoError(t, f.db.Create(&chapter.Chapter{Title: "Draft"}).Error)
	require.NoError(t, f.db.Create(&models.PremiumPayment{
		UserID: f.alice.ID, Plan: models.PlanMonthly, Status: models.PaymentPending,
	}).Error)

	stats, err := Dashboard(f.db, wed, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Students)
	assert.Equal(t, int64(1), stats.PremiumStudents)
	assert.Equal(t, int64(2), stats.Chapters)
	assert.Equal(t, int64(1), stats.PublishedChapters)
	assert.Equal(t, int64(1), stats.AttemptsToday)
	assert.Equal(t, int64(1), stats.PendingPayments)
}
