package model

import (
	"time"

	"github.com/google/uuid"
)

/*
State machine countdown (server-authoritative):

	PENDING ──(kondisi pulih / sesi ditutup)──▶ CANCELLED   (terminal)
	PENDING ──(ends_at lewat, sweep eksekusi)──▶ DONE        (terminal)

Pelanggaran baru setelah CANCELLED/DONE = row BARU, tidak pernah
re-use row lama. ends_at di-set sekali saat create dan tidak pernah
diubah — sweep yang jalan berulang tidak boleh "me-reset" countdown.
*/
const (
	StatusPending   = "PENDING"
	StatusDone      = "DONE"
	StatusCancelled = "CANCELLED"

	CancelReasonConditionsResolved = "conditions_resolved"
	CancelReasonSessionClosed      = "session_closed"

	CompletionExecuted      = "executed"
	CompletionAlreadyClosed = "already_closed"
)

type PendingCheckoutModel struct {
	PendingCheckoutID         uuid.UUID `gorm:"column:pending_checkout_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"pending_checkout_id"`
	PendingCheckoutCompanyID  uuid.UUID `gorm:"column:pending_checkout_company_id;type:uuid;not null;index:idx_pending_checkouts_company" json:"pending_checkout_company_id"`
	PendingCheckoutEmployeeID uuid.UUID `gorm:"column:pending_checkout_employee_id;type:uuid;not null" json:"pending_checkout_employee_id"`

	// partial unique: maksimal SATU countdown PENDING per sesi, walau
	// dua tick sweep tumpang tindih (insert kedua kena duplicate key)
	PendingCheckoutSessionID uuid.UUID `gorm:"column:pending_checkout_session_id;type:uuid;not null;uniqueIndex:uq_pending_checkouts_session_pending,where:pending_checkout_status = 'PENDING'" json:"pending_checkout_session_id"`

	PendingCheckoutReason string    `gorm:"column:pending_checkout_reason;type:varchar(24);not null" json:"pending_checkout_reason"`
	PendingCheckoutEndsAt time.Time `gorm:"column:pending_checkout_ends_at;not null" json:"pending_checkout_ends_at"`
	PendingCheckoutStatus string    `gorm:"column:pending_checkout_status;type:varchar(12);not null;default:'PENDING'" json:"pending_checkout_status"`

	PendingCheckoutCancelReason     *string    `gorm:"column:pending_checkout_cancel_reason;type:varchar(24)" json:"pending_checkout_cancel_reason,omitempty"`
	PendingCheckoutCompletionResult *string    `gorm:"column:pending_checkout_completion_result;type:varchar(24)" json:"pending_checkout_completion_result,omitempty"`
	PendingCheckoutCompletedAt      *time.Time `gorm:"column:pending_checkout_completed_at" json:"pending_checkout_completed_at,omitempty"`

	PendingCheckoutCreatedAt time.Time  `gorm:"column:pending_checkout_created_at;autoCreateTime" json:"pending_checkout_created_at"`
	PendingCheckoutUpdatedAt *time.Time `gorm:"column:pending_checkout_updated_at;autoUpdateTime" json:"pending_checkout_updated_at,omitempty"`
}

func (PendingCheckoutModel) TableName() string {
	return "pending_checkouts"
}
