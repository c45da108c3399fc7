package dto

import (
	"time"

	"github.com/google/uuid"

	"hadirku_backend/internals/features/attendance/sessions/model"
)

type AttendanceSessionResponse struct {
	AttendanceSessionID       uuid.UUID  `json:"attendance_session_id"`
	AttendanceSessionBranchID uuid.UUID  `json:"attendance_session_branch_id"`
	Date                      string     `json:"date"`
	CheckInAt                 time.Time  `json:"check_in_at"`
	CheckOutAt                *time.Time `json:"check_out_at,omitempty"`
	CheckOutKind              *string    `json:"check_out_kind,omitempty"`
	CheckOutReason            *string    `json:"check_out_reason,omitempty"`
	IsOpen                    bool       `json:"is_open"`
}

func FromSessionModel(m *model.AttendanceSessionModel) *AttendanceSessionResponse {
	if m == nil {
		return nil
	}
	return &AttendanceSessionResponse{
		AttendanceSessionID:       m.AttendanceSessionID,
		AttendanceSessionBranchID: m.AttendanceSessionBranchID,
		Date:                      m.AttendanceSessionDate.Format("2006-01-02"),
		CheckInAt:                 m.AttendanceSessionCheckInAt,
		CheckOutAt:                m.AttendanceSessionCheckOutAt,
		CheckOutKind:              m.AttendanceSessionCheckOutKind,
		CheckOutReason:            m.AttendanceSessionCheckOutReason,
		IsOpen:                    m.AttendanceSessionCheckOutAt == nil,
	}
}

// PendingCountdownResponse: potongan state countdown yang boleh
// dipercaya klien. ends_at dikirim verbatim dari DB — klien dilarang
// menghitung ulang.
type PendingCountdownResponse struct {
	PendingCheckoutID uuid.UUID `json:"pending_checkout_id"`
	Reason            string    `json:"reason"`
	Status            string    `json:"status"`
	EndsAt            time.Time `json:"ends_at"`
}

// SessionStateResponse: satu-satunya kontrak yang dipakai protokol
// rekonsiliasi klien (mount/resume/poll).
type SessionStateResponse struct {
	Session *AttendanceSessionResponse `json:"session"`
	Pending *PendingCountdownResponse  `json:"pending_checkout"`
}
