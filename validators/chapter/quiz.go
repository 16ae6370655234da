package chapterValidator

import (
	"fmt"
	"strconv"
	"strings"

	"lms/middleware"
	"lms/quiz"
	"lms/validators/common"

	"github.com/gofiber/fiber/v2"
)

// ============ Quiz Validators ============

type QuizRequest struct {
	Title            string          `json:"title" validate:"required,min=3,max=200"`
	Description      string          `json:"description" validate:"max=5000"`
	OrderIndex       int             `json:"order_index" validate:"gte=0"`
	PassingScore     *float64        `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	TimeLimitSeconds *int            `json:"time_limit_seconds" validate:"omitempty,gte=1"`
	IsActive         *bool           `json:"is_active"`
	IsPremium        bool            `json:"is_premium"`
	Questions        []quiz.Question `json:"questions" validate:"required,min=1"`
}

type SubmitRequest struct {
	ViewID           string         `json:"view_id" validate:"required,uuid"`
	Answers          map[string]int `json:"answers"`
	TimeTakenSeconds *int           `json:"time_taken_seconds" validate:"omitempty,gte=0"`

	// Parsed answers keyed by view position
	Positions quiz.Answers `json:"-"`
}

func CreateQuiz() fiber.Handler {
	return quizBody("id", "Chapter ID", "chapterID")
}

func UpdateQuiz() fiber.Handler {
	return quizBody("id", "Quiz ID", "quizID")
}

func quizBody(param, label, local string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := common.ParamID(c, param)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		}

		reqData := new(QuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		for i := range reqData.Questions {
			if reqData.Questions[i].Type == "" {
				reqData.Questions[i].Type = quiz.SingleChoice
			}
		}

		errors := common.Struct(reqData)
		if _, bad := errors["questions"]; !bad {
			if err := quiz.ValidateSet(reqData.Questions); err != nil {
				errors["questions"] = err.Error()
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(local, id)
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// SubmitQuiz validates POST /quiz/:id/submit. Answer keys are view positions.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := common.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		reqData := new(SubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := common.Struct(reqData)
		reqData.Positions = make(quiz.Answers, len(reqData.Answers))
		for key, selected := range reqData.Answers {
			pos, err := parsePosition(key)
			if err != nil {
				errors["answers"] = "Answer keys must be question positions!"
				break
			}
			reqData.Positions[pos] = selected
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("quizID", quizID)
		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

func parsePosition(key string) (int, error) {
	pos, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, err
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative position %d", pos)
	}
	return pos, nil
}
