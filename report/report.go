package report

import (
	"math"
	"sort"
	"time"

	"lms/models"
	"lms/models/chapter"

	"gorm.io/gorm"
)

// StudentSummary is one student's quiz activity inside a window
type StudentSummary struct {
	UserID           uint    `json:"user_id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	IsPremium        bool    `json:"is_premium"`
	Attempts         int     `json:"attempts"`
	DistinctQuizzes  int     `json:"distinct_quizzes"`
	PassedAttempts   int     `json:"passed_attempts"`
	PassRate         float64 `json:"pass_rate"`
	AveragePercent   float64 `json:"average_percentage"`
	BestPercent      float64 `json:"best_percentage"`
	TotalTimeSeconds int     `json:"total_time_seconds"`
	SlidesCompleted  int     `json:"slides_completed"`
}

// QuizBreakdown is a student's activity on one quiz inside a window
type QuizBreakdown struct {
	QuizID      uint      `json:"quiz_id"`
	QuizTitle   string    `json:"quiz_title"`
	ChapterID   uint      `json:"chapter_id"`
	Attempts    int       `json:"attempts"`
	BestPercent float64   `json:"best_percentage"`
	LastPercent float64   `json:"last_percentage"`
	LastAt      time.Time `json:"last_attempt_at"`
	Passed      bool      `json:"passed"`
}

type StudentDetail struct {
	StudentSummary
	Quizzes []QuizBreakdown `json:"quizzes"`
}

type attemptAgg struct {
	UserID          uint
	Attempts        int
	DistinctQuizzes int
	PassedAttempts  int
	AvgPercent      float64
	BestPercent     float64
	TotalTime       int
}

type countRow struct {
	UserID uint
	Total  int
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func inWindow(q *gorm.DB, column string, w Window) *gorm.DB {
	if !w.From.IsZero() {
		q = q.Where(column+" >= ?", w.From.UTC())
	}
	return q.Where(column+" < ?", w.To.UTC())
}

// Students summarizes every active student. Students without activity in
// the window are listed with zero counts.
func Students(db *gorm.DB, w Window, page, limit int) ([]StudentSummary, int64, error) {
	users := db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", models.RoleUser, false)

	var total int64
	if err := users.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.User
	if err := users.Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	if len(list) == 0 {
		return []StudentSummary{}, total, nil
	}

	ids := make([]uint, len(list))
	for i, u := range list {
		ids[i] = u.ID
	}
	aggs, slides, err := aggregate(db, ids, w)
	if err != nil {
		return nil, 0, err
	}

	out := make([]StudentSummary, len(list))
	for i, u := range list {
		out[i] = summarize(u, aggs[u.ID], slides[u.ID])
	}
	return out, total, nil
}

func aggregate(db *gorm.DB, userIDs []uint, w Window) (map[uint]attemptAgg, map[uint]int, error) {
	var rows []attemptAgg
	q := db.Model(&chapter.QuizAttempt{}).
		Select(`user_id,
			COUNT(*) AS attempts,
			COUNT(DISTINCT quiz_id) AS distinct_quizzes,
			SUM(CASE WHEN passed THEN 1 ELSE 0 END) AS passed_attempts,
			AVG(percentage) AS avg_percent,
			MAX(percentage) AS best_percent,
			COALESCE(SUM(time_taken_seconds), 0) AS total_time`).
		Where("user_id IN ?", userIDs)
	if err := inWindow(q, "created_at", w).Group("user_id").Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	aggs := make(map[uint]attemptAgg, len(rows))
	for _, r := range rows {
		aggs[r.UserID] = r
	}

	var counts []countRow
	q = db.Model(&chapter.SlideCompletion{}).
		Select("user_id, COUNT(*) AS total").
		Where("user_id IN ?", userIDs)
	if err := inWindow(q, "created_at", w).Group("user_id").Scan(&counts).Error; err != nil {
		return nil, nil, err
	}
	slides := make(map[uint]int, len(counts))
	for _, c := range counts {
		slides[c.UserID] = c.Total
	}
	return aggs, slides, nil
}

func summarize(u models.User, a attemptAgg, slides int) StudentSummary {
	s := StudentSummary{
		UserID:           u.ID,
		Name:             u.Name,
		Email:            u.Email,
		IsPremium:        u.IsPremium,
		Attempts:         a.Attempts,
		DistinctQuizzes:  a.DistinctQuizzes,
		PassedAttempts:   a.PassedAttempts,
		AveragePercent:   round2(a.AvgPercent),
		BestPercent:      round2(a.BestPercent),
		TotalTimeSeconds: a.TotalTime,
		SlidesCompleted:  slides,
	}
	if a.Attempts > 0 {
		s.PassRate = round2(100 * float64(a.PassedAttempts) / float64(a.Attempts))
	}
	return s
}

// Student returns the summary of one student plus a per-quiz breakdown,
// ordered by the most recent attempt first.
func Student(db *gorm.DB, userID uint, w Window) (*StudentDetail, error) {
	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, err
	}

	aggs, slides, err := aggregate(db, []uint{userID}, w)
	if err != nil {
		return nil, err
	}

	var attempts []chapter.QuizAttempt
	q := db.Select("id", "quiz_id", "chapter_id", "percentage", "passed", "created_at").
		Where("user_id = ?", userID)
	if err := inWindow(q, "created_at", w).Order("created_at asc, id asc").Find(&attempts).Error; err != nil {
		return nil, err
	}

	byQuiz := map[uint]*QuizBreakdown{}
	for _, a := range attempts {
		b, ok := byQuiz[a.QuizID]
		if !ok {
			b = &QuizBreakdown{QuizID: a.QuizID, ChapterID: a.ChapterID}
			byQuiz[a.QuizID] = b
		}
		b.Attempts++
		if a.Percentage > b.BestPercent {
			b.BestPercent = a.Percentage
		}
		b.LastPercent = a.Percentage
		b.LastAt = a.CreatedAt
		b.Passed = b.Passed || a.Passed
	}

	if len(byQuiz) > 0 {
		ids := make([]uint, 0, len(byQuiz))
		for id := range byQuiz {
			ids = append(ids, id)
		}
		var quizzes []chapter.Quiz
		if err := db.Unscoped().Select("id", "title").Where("id IN ?", ids).Find(&quizzes).Error; err != nil {
			return nil, err
		}
		for _, qz := range quizzes {
			byQuiz[qz.ID].QuizTitle = qz.Title
		}
	}

	breakdown := make([]QuizBreakdown, 0, len(byQuiz))
	for _, b := range byQuiz {
		breakdown = append(breakdown, *b)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].LastAt.After(breakdown[j].LastAt)
	})

	return &StudentDetail{
		StudentSummary: summarize(user, aggs[userID], slides[userID]),
		Quizzes:        breakdown,
	}, nil
}

// DashboardStats are platform-wide counters
type DashboardStats struct {
	Students          int64 `json:"students"`
	PremiumStudents   int64 `json:"premium_students"`
	Chapters          int64 `json:"chapters"`
	PublishedChapters int64 `json:"published_chapters"`
	AttemptsToday     int64 `json:"attempts_today"`
	PendingPayments   int64 `json:"pending_payments"`
}

func Dashboard(db *gorm.DB, t time.Time, loc *time.Location) (*DashboardStats, error) {
	today, err := ParseWindow(WindowDay, "", "", t, loc)
	if err != nil {
		return nil, err
	}

	var s DashboardStats
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&s.Students, db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", models.RoleUser, false)},
		{&s.PremiumStudents, db.Model(&models.User{}).
			Where("role = ? AND is_deleted = ? AND is_premium = ?", models.RoleUser, false, true).
			Where("(premium_expires_at IS NULL OR premium_expires_at > ?)", t.UTC())},
		{&s.Chapters, db.Model(&chapter.Chapter{}).Where("is_deleted = ?", false)},
		{&s.PublishedChapters, db.Model(&chapter.Chapter{}).Where("is_deleted = ? AND is_published = ?", false, true)},
		{&s.AttemptsToday, inWindow(db.Model(&chapter.QuizAttempt{}), "created_at", today)},
		{&s.PendingPayments, db.Model(&models.PremiumPayment{}).Where("status = ? AND is_deleted = ?", models.PaymentPending, false)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}
