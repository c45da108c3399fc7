package dto

import "github.com/google/uuid"

const (
	ActionCountdownStarted   = "countdown_started"
	ActionCountdownCancelled = "countdown_cancelled"
	ActionCheckoutExecuted   = "checkout_executed"
	ActionAlreadyClosed      = "already_closed"
	ActionError              = "error"
)

type SweepDetail struct {
	CompanyID  uuid.UUID `json:"company_id"`
	SessionID  uuid.UUID `json:"session_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Action     string    `json:"action"`
	Reason     string    `json:"reason,omitempty"`
}

// SweepReport: output satu run untuk observability. Dua run
// berturut-turut pada state yang tidak berubah harus menghasilkan
// started/executed = 0 pada run kedua (idempoten per sesi).
type SweepReport struct {
	Processed int           `json:"processed"`
	Started   int           `json:"started"`
	Executed  int           `json:"executed"`
	Details   []SweepDetail `json:"details"`
}
