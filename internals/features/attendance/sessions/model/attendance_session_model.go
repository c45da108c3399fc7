package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	CheckOutKindManual = "manual"
	CheckOutKindAuto   = "auto"
)

// AttendanceSessionModel: satu record check-in per karyawan per hari.
// Partial unique index menjaga maksimal SATU sesi terbuka per
// (karyawan, tanggal). Setelah check_out_at terisi, row dianggap beku.
type AttendanceSessionModel struct {
	AttendanceSessionID         uuid.UUID `gorm:"column:attendance_session_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_session_id"`
	AttendanceSessionCompanyID  uuid.UUID `gorm:"column:attendance_session_company_id;type:uuid;not null;index:idx_attendance_sessions_company_open,priority:1" json:"attendance_session_company_id"`
	AttendanceSessionEmployeeID uuid.UUID `gorm:"column:attendance_session_employee_id;type:uuid;not null;uniqueIndex:uq_attendance_sessions_open_day,priority:1,where:attendance_session_check_out_at IS NULL" json:"attendance_session_employee_id"`
	AttendanceSessionBranchID   uuid.UUID `gorm:"column:attendance_session_branch_id;type:uuid;not null" json:"attendance_session_branch_id"`

	AttendanceSessionDate      time.Time `gorm:"column:attendance_session_date;type:date;not null;uniqueIndex:uq_attendance_sessions_open_day,priority:2,where:attendance_session_check_out_at IS NULL" json:"attendance_session_date"`
	AttendanceSessionCheckInAt time.Time `gorm:"column:attendance_session_check_in_at;not null" json:"attendance_session_check_in_at"`

	// diisi persis sekali, oleh checkout manual ATAU sweep (conditional
	// update WHERE check_out_at IS NULL — yang kalah lihat 0 rows)
	AttendanceSessionCheckOutAt     *time.Time `gorm:"column:attendance_session_check_out_at;index:idx_attendance_sessions_company_open,priority:2" json:"attendance_session_check_out_at,omitempty"`
	AttendanceSessionCheckOutKind   *string    `gorm:"column:attendance_session_check_out_kind;type:varchar(8)" json:"attendance_session_check_out_kind,omitempty"`
	AttendanceSessionCheckOutReason *string    `gorm:"column:attendance_session_check_out_reason;type:varchar(24)" json:"attendance_session_check_out_reason,omitempty"`

	AttendanceSessionCreatedAt time.Time  `gorm:"column:attendance_session_created_at;autoCreateTime" json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt *time.Time `gorm:"column:attendance_session_updated_at;autoUpdateTime" json:"attendance_session_updated_at,omitempty"`
}

func (AttendanceSessionModel) TableName() string {
	return "attendance_sessions"
}
