package model

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeModel: mapping karyawan → cabang. Profil lengkap (shift,
// payroll, dsb) milik modul HR, bukan core attendance.
type EmployeeModel struct {
	EmployeeID        uuid.UUID `gorm:"column:employee_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	EmployeeCompanyID uuid.UUID `gorm:"column:employee_company_id;type:uuid;not null;index:idx_employees_company_id" json:"employee_company_id"`
	EmployeeBranchID  uuid.UUID `gorm:"column:employee_branch_id;type:uuid;not null" json:"employee_branch_id"`

	EmployeeFullName string `gorm:"column:employee_full_name;type:varchar(100);not null" json:"employee_full_name"`
	EmployeeIsActive bool   `gorm:"column:employee_is_active;not null;default:true" json:"employee_is_active"`

	EmployeeCreatedAt time.Time  `gorm:"column:employee_created_at;autoCreateTime" json:"employee_created_at"`
	EmployeeUpdatedAt *time.Time `gorm:"column:employee_updated_at;autoUpdateTime" json:"employee_updated_at,omitempty"`
}

func (EmployeeModel) TableName() string {
	return "employees"
}
