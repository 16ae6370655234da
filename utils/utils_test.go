package utils

import (
	"fmt"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	"lms/models/chapter"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.AppConfig = &config.Config{SchedulerTimezone: "UTC", EmailSenderName: "Test"}
	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *gorm.DB, u models.User) models.User {
	t.Helper()
	if u.Email == "" {
		u.Email = uuid.NewString() + "@example.com"
	}
	u.Password = "hash"
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestNotifyFansOutToAudience(t *testing.T) {
	db := testDB(t)
	free := createUser(t, db, models.User{Name: "free"})
	premium := createUser(t, db, models.User{Name: "premium", IsPremium: true})

	all := &models.Notification{Title: "Hello", Body: "everyone", Audience: models.AudienceAll}
	require.NoError(t, Notify(db, all))
	assert.Equal(t, 2, all.Recipients)

	onlyPremium := &models.Notification{Title: "New chapter", Body: "premium", Audience: models.AudiencePremium}
	require.NoError(t, Notify(db, onlyPremium))
	assert.Equal(t, 1, onlyPremium.Recipients)

	var rows []models.UserNotification
	require.NoError(t, db.Where("notification_id = ?", onlyPremium.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, premium.ID, rows[0].UserID)

	require.NoError(t, NotifyUser(db, free.ID, "Direct", "just you", false))
	var count int64
	db.Model(&models.UserNotification{}).Where("user_id = ?", free.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestNotifyRejectsUserAudienceWithoutTarget(t *testing.T) {
	db := testDB(t)
	err := Notify(db, &models.Notification{Title: "x", Audience: models.AudienceUser})
	assert.Error(t, err)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestPremiumReminderAndExpiry(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	soon := now.Add(48 * time.Hour)
	later := now.Add(10 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	expiring := createUser(t, db, models.User{IsPremium: true, PremiumExpiresAt: &soon})
	createUser(t, db, models.User{IsPremium: true, PremiumExpiresAt: &later})
	lapsed := createUser(t, db, models.User{IsPremium: true, PremiumExpiresAt: &past})

	sent, err := ProcessExpiringPremium(db, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// second run does not remind again
	sent, err = ProcessExpiringPremium(db, now)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, expiring.ID).Error)
	assert.True(t, reloaded.PremiumReminderSent)

	expired, err := ExpirePremium(db, now)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	var lapsedAfter models.User
	require.NoError(t, db.First(&lapsedAfter, lapsed.ID).Error)
	assert.False(t, lapsedAfter.IsPremium)

	var notes int64
	db.Model(&models.UserNotification{}).Where("user_id = ?", lapsed.ID).Count(&notes)
	assert.EqualValues(t, 1, notes)
}

func TestExpirePremiumSkipsUserRenewedMeanwhile(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	renewedUntil := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	renewed := createUser(t, db, models.User{IsPremium: true, PremiumExpiresAt: &past})
	lapsed := createUser(t, db, models.User{IsPremium: true, PremiumExpiresAt: &past})

	// An approval commits right after the expiry scan has read its candidates
	fired := false
	err := db.Callback().Query().After("gorm:query").Register("test:renew_after_scan", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*[]models.User); !ok || fired {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).Model(&models.User{}).
			Where("id = ?", renewed.ID).
			Update("premium_expires_at", renewedUntil)
	})
	require.NoError(t, err)

	expired, err := ExpirePremium(db, now)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, 1, expired)

	var renewedAfter models.User
	require.NoError(t, db.First(&renewedAfter, renewed.ID).Error)
	assert.True(t, renewedAfter.IsPremium)
	require.NotNil(t, renewedAfter.PremiumExpiresAt)
	assert.True(t, renewedAfter.PremiumExpiresAt.Equal(renewedUntil))

	var lapsedAfter models.User
	require.NoError(t, db.First(&lapsedAfter, lapsed.ID).Error)
	assert.False(t, lapsedAfter.IsPremium)

	var notes int64
	db.Model(&models.UserNotification{}).Where("user_id = ?", renewed.ID).Count(&notes)
	assert.Zero(t, notes)
	db.Model(&models.UserNotification{}).Where("user_id = ?", lapsed.ID).Count(&notes)
	assert.EqualValues(t, 1, notes)
}

func TestRecomputeChapterProgress(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	user := createUser(t, db, models.User{})

	ch := chapter.Chapter{Title: "Intro", IsPublished: true}
	require.NoError(t, db.Create(&ch).Error)
	s1 := chapter.Slide{ChapterID: ch.ID, Type: chapter.SlideText, IsPublished: true}
	s2 := chapter.Slide{ChapterID: ch.ID, Type: chapter.SlideText, IsPublished: true}
	draft := chapter.Slide{ChapterID: ch.ID, Type: chapter.SlideText}
	require.NoError(t, db.Create(&[]*chapter.Slide{&s1, &s2, &draft}).Error)
	q := chapter.Quiz{ChapterID: ch.ID, Title: "Check", IsActive: true, IsPublished: true}
	require.NoError(t, db.Create(&q).Error)

	p, err := RecomputeChapterProgress(db, user.ID, ch.ID, now)
	require.NoError(t, err)
	assert.Equal(t, chapter.ProgressNotStarted, p.Status)
	assert.Equal(t, 2, p.TotalSlides)
	assert.Equal(t, 1, p.TotalQuizzes)

	require.NoError(t, db.Create(&chapter.SlideCompletion{UserID: user.ID, ChapterID: ch.ID, SlideID: s1.ID}).Error)
	require.NoError(t, db.Create(&chapter.SlideCompletion{UserID: user.ID, ChapterID: ch.ID, SlideID: draft.ID}).Error)
	p, err = RecomputeChapterProgress(db, user.ID, ch.ID, now)
	require.NoError(t, err)
	assert.Equal(t, chapter.ProgressInProgress, p.Status)
	assert.Equal(t, 1, p.CompletedSlides)
	assert.Equal(t, 33.33, p.Progress)

	require.NoError(t, db.Create(&chapter.SlideCompletion{UserID: user.ID, ChapterID: ch.ID, SlideID: s2.ID}).Error)
	require.NoError(t, db.Create(&chapter.QuizAttempt{UserID: user.ID, QuizID: q.ID, ChapterID: ch.ID, AttemptNumber: 1, ViewID: uuid.New(), Passed: true}).Error)
	p, err = RecomputeChapterProgress(db, user.ID, ch.ID, now)
	require.NoError(t, err)
	assert.Equal(t, chapter.ProgressCompleted, p.Status)
	assert.Equal(t, 100.0, p.Progress)
	require.NotNil(t, p.CompletedAt)

	var rows int64
	db.Model(&chapter.ChapterProgress{}).Where("user_id = ? AND chapter_id = ?", user.ID, ch.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)
}
