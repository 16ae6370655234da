package paymentController

import (
	"fmt"
	"testing"
	"time"

	"lms/database"
	"lms/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*gorm.DB, models.User) {
	t.Helper()
	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)

	user := models.User{Name: "Student", Email: "student@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return db, user
}

func pending(t *testing.T, db *gorm.DB, userID uint, plan string) models.PremiumPayment {
	t.Helper()
	p := models.PremiumPayment{UserID: userID, Plan: plan, Amount: 10, Reference: "TRX-1", Status: models.PaymentPending}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestApprovePaymentExtendsPremium(t *testing.T) {
	db, user := setup(t)
	p := pending(t, db, user.ID, models.PlanMonthly)

	approved, updated, err := approvePayment(db, p.ID, 99, t0)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, uint(99), *approved.ReviewedBy)
	assert.True(t, updated.IsPremium)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.True(t, reloaded.IsPremium)
	require.NotNil(t, reloaded.PremiumExpiresAt)
	assert.Equal(t, "2026-06-04", reloaded.PremiumExpiresAt.UTC().Format("2006-01-02"))

	// A second approval stacks on the remaining window
	next := pending(t, db, user.ID, models.PlanYearly)
	renewed, _, err := approvePayment(db, next.ID, 99, t0.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, "2027-06-04", renewed.PremiumUntil.UTC().Format("2006-01-02"))
}

func TestApprovePaymentOnlyOnce(t *testing.T) {
	db, user := setup(t)
	p := pending(t, db, user.ID, models.PlanMonthly)

	_, _, err := approvePayment(db, p.ID, 1, t0)
	require.NoError(t, err)

	_, _, err = approvePayment(db, p.ID, 1, t0)
	assert.ErrorIs(t, err, errPaymentNotPending)

	_, err = rejectPayment(db, p.ID, 1, "duplicate", t0)
	assert.ErrorIs(t, err, errPaymentNotPending)

	_, _, err = approvePayment(db, p.ID+100, 1, t0)
	assert.ErrorIs(t, err, errPaymentNotFound)
}

func TestRejectPaymentLeavesUserUntouched(t *testing.T) {
	db, user := setup(t)
	p := pending(t, db, user.ID, models.PlanMonthly)

	rejected, err := rejectPayment(db, p.ID, 7, "Reference not found", t0)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRejected, rejected.Status)
	assert.Equal(t, "Reference not found", rejected.RejectionReason)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.False(t, reloaded.IsPremium)
	assert.Nil(t, reloaded.PremiumExpiresAt)
}

func TestCreatePendingAllowsOneAwaitingReview(t *testing.T) {
	db, user := setup(t)

	first := models.PremiumPayment{UserID: user.ID, Plan: models.PlanMonthly, Amount: 10, Reference: "TRX-1", Status: models.PaymentPending}
	require.NoError(t, createPending(db, &first))

	second := models.PremiumPayment{UserID: user.ID, Plan: models.PlanYearly, Amount: 20, Reference: "TRX-2", Status: models.PaymentPending}
	assert.ErrorIs(t, createPending(db, &second), errPendingExists)

	var count int64
	db.Model(&models.PremiumPayment{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	// Once reviewed, a new request is accepted
	_, err := rejectPayment(db, first.ID, 99, "unreadable proof", t0)
	require.NoError(t, err)
	require.NoError(t, createPending(db, &second))
}

func TestCreatePendingUnknownUser(t *testing.T) {
	db, _ := setup(t)
	p := models.PremiumPayment{UserID: 4242, Plan: models.PlanMonthly, Status: models.PaymentPending}
	assert.ErrorIs(t, createPending(db, &p), gorm.ErrRecordNotFound)
}
