package chapterController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/models/chapter"
	"lms/quiz"
	"lms/quiz/ledger"
	chapterValidator "lms/validators/chapter"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type quizEnv struct {
	app   *fiber.App
	db    *gorm.DB
	user  models.User
	token string
	ch    chapter.Chapter
	q     chapter.Quiz
}

func newQuizEnv(t *testing.T) *quizEnv {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret", QuizViewTTL: time.Hour, SchedulerTimezone: "UTC"}

	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	database.Database.Db = db
	Shuffler = quiz.NewRandomizer(rand.NewSource(42))

	env := &quizEnv{db: db}
	env.user = models.User{Name: "Student", Email: "student@example.com", Password: "x"}
	require.NoError(t, db.Create(&env.user).Error)
	env.token, err = middleware.GenerateJWT(env.user.ID, env.user.Name, models.RoleUser, env.user.Email)
	require.NoError(t, err)

	env.ch = chapter.Chapter{Title: "Basics", IsPublished: true}
	require.NoError(t, db.Create(&env.ch).Error)
	env.q = chapter.Quiz{
		ChapterID:    env.ch.ID,
		Title:        "Basics quiz",
		PassingScore: 50,
		IsActive:     true,
		IsPublished:  true,
		Questions: datatypes.NewJSONType([]quiz.Question{
			{Type: quiz.SingleChoice, Prompt: "2 + 2", Options: []string{"3", "4", "5"}, CorrectIndex: 1},
			{Type: quiz.SingleChoice, Prompt: "Capital of France", Options: []string{"Paris", "Rome"}, CorrectIndex: 0},
		}),
	}
	require.NoError(t, db.Create(&env.q).Error)

	app := fiber.New()
	quizGroup := app.Group("/quiz", middleware.JWTMiddleware)
	quizGroup.Get("/attempt/:id", chapterValidator.ContentID("attemptID", "Attempt ID"), GetAttempt)
	quizGroup.Get("/:id", chapterValidator.ContentID("quizID", "Quiz ID"), StartQuiz)
	quizGroup.Post("/:id/submit", chapterValidator.SubmitQuiz(), SubmitQuiz)
	quizGroup.Get("/:id/attempts", chapterValidator.ContentID("quizID", "Quiz ID"), GetQuizAttempts)
	app.Get("/chapter/:id/progress", middleware.JWTMiddleware, chapterValidator.ChapterID(), GetChapterProgress)
	env.app = app
	return env
}

func (e *quizEnv) do(t *testing.T, method, path string, body interface{}) (int, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+e.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

type startData struct {
	ViewID    string                `json:"view_id"`
	Questions []quiz.PublicQuestion `json:"questions"`
}

func (e *quizEnv) start(t *testing.T) startData {
	t.Helper()
	status, resp := e.do(t, http.MethodGet, fmt.Sprintf("/quiz/%d", e.q.ID), nil)
	require.Equal(t, http.StatusOK, status, resp.Message)
	var data startData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

// correctAnswers reads the answer key of a view straight from storage
func (e *quizEnv) correctAnswers(t *testing.T, viewID string) map[string]int {
	t.Helper()
	var view chapter.QuizView
	require.NoError(t, e.db.First(&view, "id = ?", viewID).Error)
	answers := map[string]int{}
	for pos, sq := range view.Snapshot.Data() {
		answers[fmt.Sprint(pos)] = sq.CorrectIndex
	}
	return answers
}

func TestStartQuizHidesAnswerKey(t *testing.T) {
	env := newQuizEnv(t)
	status, resp := env.do(t, http.MethodGet, fmt.Sprintf("/quiz/%d", env.q.ID), nil)
	require.Equal(t, http.StatusOK, status)

	assert.NotContains(t, string(resp.Data), "correct_index")
	assert.NotContains(t, string(resp.Data), "explanation")

	var data startData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	_, err := uuid.Parse(data.ViewID)
	assert.NoError(t, err)
	assert.Len(t, data.Questions, 2)
}

func TestSubmitQuizFlow(t *testing.T) {
	env := newQuizEnv(t)
	view := env.start(t)
	submitPath := fmt.Sprintf("/quiz/%d/submit", env.q.ID)
	body := fiber.Map{"view_id": view.ViewID, "answers": env.correctAnswers(t, view.ViewID), "time_taken_seconds": 42}

	status, resp := env.do(t, http.MethodPost, submitPath, body)
	require.Equal(t, http.StatusOK, status, resp.Message)

	var result struct {
		Attempt   chapter.AttemptSummary `json:"attempt"`
		Breakdown []quiz.QuestionResult  `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 1, result.Attempt.AttemptNumber)
	assert.Equal(t, 100.0, result.Attempt.Percentage)
	assert.True(t, result.Attempt.Passed)
	assert.Len(t, result.Breakdown, 2)

	// The same view cannot be submitted twice
	status, _ = env.do(t, http.MethodPost, submitPath, body)
	assert.Equal(t, http.StatusConflict, status)

	var progress chapter.ChapterProgress
	require.NoError(t, env.db.Where("user_id = ? AND chapter_id = ?", env.user.ID, env.ch.ID).First(&progress).Error)
	assert.Equal(t, 1, progress.PassedQuizzes)
	assert.Equal(t, chapter.ProgressCompleted, progress.Status)

	status, resp = env.do(t, http.MethodGet, fmt.Sprintf("/quiz/attempt/%d", result.Attempt.ID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(resp.Data), "correct_index")

	second := env.start(t)
	status, _ = env.do(t, http.MethodPost, submitPath, fiber.Map{"view_id": second.ViewID, "answers": fiber.Map{}})
	require.Equal(t, http.StatusOK, status)

	status, resp = env.do(t, http.MethodGet, fmt.Sprintf("/quiz/%d/attempts", env.q.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var history struct {
		Attempts []chapter.AttemptSummary `json:"attempts"`
		Best     float64                  `json:"best_percentage"`
		Passed   bool                     `json:"passed"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &history))
	require.Len(t, history.Attempts, 2)
	assert.Equal(t, 2, history.Attempts[1].AttemptNumber)
	assert.Equal(t, 100.0, history.Best)
	assert.True(t, history.Passed)
}

func TestSubmitQuizExpiredView(t *testing.T) {
	env := newQuizEnv(t)
	view, err := ledger.CreateView(env.db, Shuffler, env.user.ID, &env.q, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	status, _ := env.do(t, http.MethodPost, fmt.Sprintf("/quiz/%d/submit", env.q.ID),
		fiber.Map{"view_id": view.ID.String(), "answers": fiber.Map{"0": 1}})
	assert.Equal(t, http.StatusGone, status)
}

func TestSubmitQuizValidation(t *testing.T) {
	env := newQuizEnv(t)
	path := fmt.Sprintf("/quiz/%d/submit", env.q.ID)

	status, _ := env.do(t, http.MethodPost, path, fiber.Map{"view_id": "not-a-uuid"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = env.do(t, http.MethodPost, path, fiber.Map{"view_id": uuid.NewString(), "answers": fiber.Map{"first": 1}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = env.do(t, http.MethodPost, path, fiber.Map{"view_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestQuizAccessDenied(t *testing.T) {
	env := newQuizEnv(t)
	path := fmt.Sprintf("/quiz/%d", env.q.ID)

	require.NoError(t, env.db.Model(&env.q).Update("is_premium", true).Error)
	status, resp := env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusForbidden, status)
	var denial quiz.Decision
	require.NoError(t, json.Unmarshal(resp.Data, &denial))
	assert.Equal(t, quiz.StateLive, denial.State)
	assert.Equal(t, quiz.ReasonPremiumRequired, denial.Reason)

	// Scheduled chapters stay closed even for premium users
	until := time.Now().Add(48 * time.Hour)
	require.NoError(t, env.db.Model(&env.user).Updates(map[string]interface{}{
		"is_premium": true, "premium_expires_at": until,
	}).Error)
	publishAt := time.Now().Add(24 * time.Hour)
	require.NoError(t, env.db.Model(&env.ch).Update("publish_at", publishAt).Error)

	status, resp = env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusForbidden, status)
	require.NoError(t, json.Unmarshal(resp.Data, &denial))
	assert.Equal(t, quiz.StateScheduled, denial.State)
	assert.NotNil(t, denial.ScheduledFor)
}

func TestQuizNotFoundAndForeignAttempt(t *testing.T) {
	env := newQuizEnv(t)

	status, _ := env.do(t, http.MethodGet, "/quiz/9999", nil)
	assert.Equal(t, http.StatusNotFound, status)

	other := models.User{Email: "other@example.com", Password: "x"}
	require.NoError(t, env.db.Create(&other).Error)
	view, err := ledger.CreateView(env.db, Shuffler, other.ID, &env.q, time.Hour, time.Now())
	require.NoError(t, err)
	attempt, err := ledger.RecordAttempt(env.db, ledger.Submission{
		UserID: other.ID, Quiz: &env.q, ViewID: view.ID, SubmittedAt: time.Now(),
	})
	require.NoError(t, err)

	status, _ = env.do(t, http.MethodGet, fmt.Sprintf("/quiz/attempt/%d", attempt.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Someone else's view is not found for this user
	status, _ = env.do(t, http.MethodPost, fmt.Sprintf("/quiz/%d/submit", env.q.ID), fiber.Map{"view_id": view.ID.String()})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestChapterProgressIsGated(t *testing.T) {
	env := newQuizEnv(t)
	path := fmt.Sprintf("/chapter/%d/progress", env.ch.ID)

	status, _ := env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)

	publishAt := time.Now().Add(24 * time.Hour)
	require.NoError(t, env.db.Model(&env.ch).Update("publish_at", publishAt).Error)
	status, _ = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusForbidden, status)

	require.NoError(t, env.db.Model(&env.ch).Updates(map[string]interface{}{"publish_at": nil, "is_published": false}).Error)
	status, _ = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var rows int64
	env.db.Model(&chapter.ChapterProgress{}).Where("user_id = ? AND chapter_id = ?", env.user.ID, env.ch.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)
}
