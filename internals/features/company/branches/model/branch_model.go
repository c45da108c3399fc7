package model

import (
	"time"

	"github.com/google/uuid"
)

// BranchModel menyimpan titik geofence cabang (center + radius).
// CRUD cabang diurus modul admin; core attendance hanya membaca.
type BranchModel struct {
	BranchID        uuid.UUID `gorm:"column:branch_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"branch_id"`
	BranchCompanyID uuid.UUID `gorm:"column:branch_company_id;type:uuid;not null;index:idx_branches_company_id" json:"branch_company_id"`

	BranchName string `gorm:"column:branch_name;type:varchar(100);not null" json:"branch_name"`

	// geofence
	BranchLatitude        float64 `gorm:"column:branch_latitude;type:double precision;not null" json:"branch_latitude"`
	BranchLongitude       float64 `gorm:"column:branch_longitude;type:double precision;not null" json:"branch_longitude"`
	BranchGeofenceRadiusM float64 `gorm:"column:branch_geofence_radius_m;type:double precision;not null;default:100" json:"branch_geofence_radius_m"`

	BranchCreatedAt time.Time  `gorm:"column:branch_created_at;autoCreateTime" json:"branch_created_at"`
	BranchUpdatedAt *time.Time `gorm:"column:branch_updated_at;autoUpdateTime" json:"branch_updated_at,omitempty"`
}

func (BranchModel) TableName() string {
	return "branches"
}
