package model

import (
	"time"

	"github.com/google/uuid"
)

/*
Alasan pelanggaran (varchar di DB):
- none            → kondisi normal
- gps_disabled    → permission GPS dicabut/denied
- out_of_branch   → di luar radius geofence cabang
- heartbeat_stale → heartbeat hilang/basi; hanya di-set oleh sweep,
  tidak pernah muncul di row heartbeat itu sendiri
*/
const (
	ViolationNone           = "none"
	ViolationGpsDisabled    = "gps_disabled"
	ViolationOutOfBranch    = "out_of_branch"
	ViolationHeartbeatStale = "heartbeat_stale"
)

// PresenceHeartbeatModel: SATU row per karyawan, selalu di-overwrite
// (bukan append). Dihapus saat sesi ditutup, manual maupun otomatis.
type PresenceHeartbeatModel struct {
	PresenceHeartbeatID         uuid.UUID `gorm:"column:presence_heartbeat_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"presence_heartbeat_id"`
	PresenceHeartbeatEmployeeID uuid.UUID `gorm:"column:presence_heartbeat_employee_id;type:uuid;not null;uniqueIndex:uq_presence_heartbeats_employee" json:"presence_heartbeat_employee_id"`
	PresenceHeartbeatCompanyID  uuid.UUID `gorm:"column:presence_heartbeat_company_id;type:uuid;not null;index:idx_presence_heartbeats_company" json:"presence_heartbeat_company_id"`
	PresenceHeartbeatSessionID  uuid.UUID `gorm:"column:presence_heartbeat_session_id;type:uuid;not null" json:"presence_heartbeat_session_id"`

	PresenceHeartbeatLastSeenAt      time.Time `gorm:"column:presence_heartbeat_last_seen_at;not null" json:"presence_heartbeat_last_seen_at"`
	PresenceHeartbeatInsideGeofence  bool      `gorm:"column:presence_heartbeat_inside_geofence;not null;default:false" json:"presence_heartbeat_inside_geofence"`
	PresenceHeartbeatGpsEnabled      bool      `gorm:"column:presence_heartbeat_gps_enabled;not null;default:false" json:"presence_heartbeat_gps_enabled"`
	PresenceHeartbeatViolationReason string    `gorm:"column:presence_heartbeat_violation_reason;type:varchar(24);not null;default:'none'" json:"presence_heartbeat_violation_reason"`

	// Penghitung bacaan out-of-branch berturut-turut. Row-nya single &
	// di-overwrite, jadi historinya disimpan sebagai counter, bukan baris.
	// Reset ke 0 begitu kembali ke dalam geofence.
	PresenceHeartbeatOutsideCount int `gorm:"column:presence_heartbeat_outside_count;not null;default:0" json:"presence_heartbeat_outside_count"`

	// posisi terakhir (nullable; kosong saat GPS mati)
	PresenceHeartbeatLatitude  *float64 `gorm:"column:presence_heartbeat_latitude;type:double precision" json:"presence_heartbeat_latitude,omitempty"`
	PresenceHeartbeatLongitude *float64 `gorm:"column:presence_heartbeat_longitude;type:double precision" json:"presence_heartbeat_longitude,omitempty"`
	PresenceHeartbeatAccuracyM *float64 `gorm:"column:presence_heartbeat_accuracy_m;type:double precision" json:"presence_heartbeat_accuracy_m,omitempty"`

	PresenceHeartbeatUpdatedAt time.Time `gorm:"column:presence_heartbeat_updated_at;autoUpdateTime" json:"presence_heartbeat_updated_at"`
}

func (PresenceHeartbeatModel) TableName() string {
	return "presence_heartbeats"
}
