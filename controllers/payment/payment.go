package paymentController

import (
	"errors"
	"log"
	"time"

	"lms/config"
	"lms/controllers/shared"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errPaymentNotFound   = errors.New("payment not found")
	errPaymentNotPending = errors.New("payment already reviewed")
	errPendingExists     = errors.New("payment already awaiting review")
)

func planPrice(plan string) float64 {
	if plan == models.PlanYearly {
		return config.AppConfig.PremiumYearlyPrice
	}
	return config.AppConfig.PremiumMonthlyPrice
}

// RequestPremium records a PENDING payment for manual review
func RequestPremium(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	reqData, ok := c.Locals("validatedPremium").(*paymentValidator.PremiumRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	payment := models.PremiumPayment{
		UserID:    user.ID,
		Plan:      reqData.Plan,
		Amount:    planPrice(reqData.Plan),
		Reference: reqData.Reference,
		Status:    models.PaymentPending,
	}

	var proofName string
	if file, err := c.FormFile("proof"); err == nil {
		proofName, err = utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"proof": err.Error()})
		}
		payment.ProofURL = utils.GetFileURL(proofName)
	}

	if err := createPending(database.Database.Db, &payment); err != nil {
		utils.RemoveUploadedFile(proofName, config.AppConfig.UploadDir)
		if errors.Is(err, errPendingExists) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already have a payment awaiting review!", nil)
		}
		log.Printf("Error creating premium payment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment submitted for review!", payment)
}

// createPending stores payment unless its user already has one awaiting review
func createPending(db *gorm.DB, payment *models.PremiumPayment) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Serializes requests of the same user
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&user, payment.UserID).Error; err != nil {
			return err
		}

		var pending int64
		if err := tx.Model(&models.PremiumPayment{}).
			Where("user_id = ? AND status = ? AND is_deleted = ?", payment.UserID, models.PaymentPending, false).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return errPendingExists
		}
		return tx.Create(payment).Error
	})
}

func PaymentHistory(c *fiber.Ctx) error {
	user, ok := shared.CurrentUser(c)
	if !ok {
		return nil
	}
	reqData := c.Locals("validatedPaymentList").(*paymentValidator.ListQuery)

	query := database.Database.Db.Model(&models.PremiumPayment{}).
		Where("user_id = ? AND is_deleted = ?", user.ID, false)
	return listPayments(c, query, reqData)
}

// AdminListPayments lists payments of every user, optionally filtered by status
func AdminListPayments(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPaymentList").(*paymentValidator.ListQuery)

	query := database.Database.Db.Model(&models.PremiumPayment{}).Where("is_deleted = ?", false)
	return listPayments(c, query, reqData)
}

func listPayments(c *fiber.Ctx, query *gorm.DB, reqData *paymentValidator.ListQuery) error {
	if reqData.Status != "" {
		query = query.Where("status = ?", reqData.Status)
	}

	var total int64
	query.Session(&gorm.Session{}).Count(&total)

	var payments []models.PremiumPayment
	if err := query.Order("created_at desc").
		Offset((reqData.Page - 1) * reqData.Limit).
		Limit(reqData.Limit).
		Find(&payments).Error; err != nil {
		log.Printf("Error fetching payments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

func AdminApprovePayment(c *fiber.Ctx) error {
	paymentID := c.Locals("paymentID").(uint)
	reviewerID := c.Locals("userId").(uint)

	payment, user, err := approvePayment(database.Database.Db, paymentID, reviewerID, time.Now())
	if err != nil {
		return reviewError(c, err)
	}

	log.Printf("[PAYMENT] payment %d approved, user %d premium until %s", payment.ID, user.ID, payment.PremiumUntil.Format(time.RFC3339))
	if err := utils.NotifyUser(database.Database.Db, user.ID, "Premium activated",
		"Your "+payment.Plan+" premium plan is active until "+payment.PremiumUntil.Format("02 Jan 2006")+".", false); err != nil {
		log.Printf("[PAYMENT] notify user %d: %v", user.ID, err)
	}
	utils.SendPaymentApprovedEmail(user.Email, user.Name, payment.Plan, *payment.PremiumUntil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment approved successfully!", payment)
}

// approvePayment marks the payment approved and extends the user's premium
// window in one transaction.
func approvePayment(db *gorm.DB, paymentID, reviewerID uint, t time.Time) (*models.PremiumPayment, *models.User, error) {
	var payment models.PremiumPayment
	var user models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockPending(tx, paymentID, &payment); err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, payment.UserID).Error; err != nil {
			return err
		}

		from, until := models.ExtendPremium(user.PremiumExpiresAt, payment.Plan, t)
		payment.Status = models.PaymentApproved
		payment.ReviewedBy = &reviewerID
		payment.ReviewedAt = &t
		payment.PremiumFrom = &from
		payment.PremiumUntil = &until
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		user.IsPremium = true
		user.PremiumExpiresAt = &until
		user.PremiumReminderSent = false
		return tx.Model(&user).Updates(map[string]interface{}{
			"is_premium":            true,
			"premium_expires_at":    until,
			"premium_reminder_sent": false,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &payment, &user, nil
}

func AdminRejectPayment(c *fiber.Ctx) error {
	paymentID := c.Locals("paymentID").(uint)
	reviewerID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedReject").(*paymentValidator.RejectRequest)

	payment, err := rejectPayment(database.Database.Db, paymentID, reviewerID, reqData.Reason, time.Now())
	if err != nil {
		return reviewError(c, err)
	}

	var user models.User
	if err := database.Database.Db.First(&user, payment.UserID).Error; err == nil {
		if err := utils.NotifyUser(database.Database.Db, user.ID, "Payment rejected", "Reason: "+reqData.Reason, false); err != nil {
			log.Printf("[PAYMENT] notify user %d: %v", user.ID, err)
		}
		utils.SendPaymentRejectedEmail(user.Email, user.Name, reqData.Reason)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment rejected successfully!", payment)
}

func rejectPayment(db *gorm.DB, paymentID, reviewerID uint, reason string, t time.Time) (*models.PremiumPayment, error) {
	var payment models.PremiumPayment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockPending(tx, paymentID, &payment); err != nil {
			return err
		}
		payment.Status = models.PaymentRejected
		payment.ReviewedBy = &reviewerID
		payment.ReviewedAt = &t
		payment.RejectionReason = reason
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func lockPending(tx *gorm.DB, paymentID uint, payment *models.PremiumPayment) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_deleted = ?", paymentID, false).
		First(payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errPaymentNotFound
	}
	if err != nil {
		return err
	}
	if payment.Status != models.PaymentPending {
		return errPaymentNotPending
	}
	return nil
}

func reviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errPaymentNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	case errors.Is(err, errPaymentNotPending):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment has already been reviewed!", nil)
	default:
		log.Printf("[PAYMENT] review failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to review payment!", nil)
	}
}
