package reportController

import (
	"errors"
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/report"
	reportValidator "lms/validators/report"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminStudentReport lists per-student activity for the requested window
func AdminStudentReport(c *fiber.Ctx) error {
	reqData := c.Locals("reportQuery").(*reportValidator.WindowQuery)
	w := c.Locals("reportWindow").(report.Window)

	rows, total, err := report.Students(database.Database.Db, w, reqData.Page, reqData.Limit)
	if err != nil {
		log.Printf("[REPORT] student report failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build report!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student report fetched successfully!", fiber.Map{
		"window":   w,
		"students": rows,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

func AdminStudentDetail(c *fiber.Ctx) error {
	studentID := c.Locals("studentID").(uint)
	w := c.Locals("reportWindow").(report.Window)

	detail, err := report.Student(database.Database.Db, studentID, w)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}
	if err != nil {
		log.Printf("[REPORT] student %d detail failed: %v", studentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build report!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student report fetched successfully!", fiber.Map{
		"window":  w,
		"student": detail,
	})
}

func AdminDashboardStats(c *fiber.Ctx) error {
	stats, err := report.Dashboard(database.Database.Db, time.Now(), config.AppConfig.Location())
	if err != nil {
		log.Printf("[REPORT] dashboard stats failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}
