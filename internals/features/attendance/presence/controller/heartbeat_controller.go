// internals/features/attendance/presence/controller/heartbeat_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	branchmodel "hadirku_backend/internals/features/company/branches/model"
	empmodel "hadirku_backend/internals/features/company/employees/model"

	"hadirku_backend/internals/features/attendance/presence/dto"
	"hadirku_backend/internals/features/attendance/presence/model"
	"hadirku_backend/internals/features/attendance/presence/service"
	sessmodel "hadirku_backend/internals/features/attendance/sessions/model"
	helper "hadirku_backend/internals/helpers"
)

type HeartbeatController struct {
	DB *gorm.DB
}

func NewHeartbeatController(db *gorm.DB) *HeartbeatController {
	return &HeartbeatController{DB: db}
}

/* ===================== INGEST ===================== */
// POST /attendance/heartbeat
//
// Hanya upsert presence — TIDAK pernah menyentuh pending_checkouts.
// Start/cancel countdown itu urusan sweep, supaya deteksi pelanggaran
// single-writer per tenant dan dua heartbeat paralel tidak bikin
// countdown dobel.
func (ctl *HeartbeatController) Ingest(c *fiber.Ctx) error {
	employeeID, err := helper.GetEmployeeIDFromToken(c)
	if err != nil {
		return err
	}
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.HeartbeatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// 1) Resolve sesi terbuka. Tidak ada → NoActiveSession (bug klien,
	//    cukup drop; absennya heartbeat nanti kebaca sweep via staleness).
	var sess sessmodel.AttendanceSessionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("attendance_session_company_id = ? AND attendance_session_employee_id = ? AND attendance_session_check_out_at IS NULL",
			companyID, employeeID).
		Limit(1).
		Find(&sess).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if sess.AttendanceSessionID == uuid.Nil {
		return fiber.NewError(fiber.StatusNotFound, "NoActiveSession")
	}

	// 2) Resolve cabang karyawan (read-only, milik modul HR)
	var emp empmodel.EmployeeModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("employee_company_id = ? AND employee_id = ?", companyID, employeeID).
		Limit(1).
		Find(&emp).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if emp.EmployeeID == uuid.Nil {
		return fiber.NewError(fiber.StatusNotFound, "Karyawan tidak ditemukan")
	}

	var branch branchmodel.BranchModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("branch_company_id = ? AND branch_id = ?", companyID, emp.EmployeeBranchID).
		Limit(1).
		Find(&branch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if branch.BranchID == uuid.Nil {
		return fiber.NewError(fiber.StatusNotFound, "Cabang tidak ditemukan")
	}

	// 3) Evaluasi posisi
	gpsOk := req.PermissionState == "granted" && req.Location != nil
	inside := false
	violation := model.ViolationGpsDisabled

	if gpsOk {
		in, _, evalErr := service.IsInsideGeofence(
			req.Location.Lat, req.Location.Lng,
			branch.BranchLatitude, branch.BranchLongitude,
			branch.BranchGeofenceRadiusM,
		)
		if evalErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, evalErr.Error())
		}
		inside = in
		if inside {
			violation = model.ViolationNone
		} else {
			violation = model.ViolationOutOfBranch
		}
	}

	// 4) Counter bacaan out-of-branch: increment/reset DI SQL supaya dua
	//    heartbeat paralel tidak kehilangan hitungan
	insertCount, conflictCount := service.OutsideCounter(gpsOk, inside)

	now := time.Now()
	row := model.PresenceHeartbeatModel{
		PresenceHeartbeatEmployeeID:      employeeID,
		PresenceHeartbeatCompanyID:       companyID,
		PresenceHeartbeatSessionID:       sess.AttendanceSessionID,
		PresenceHeartbeatLastSeenAt:      now,
		PresenceHeartbeatInsideGeofence:  inside,
		PresenceHeartbeatGpsEnabled:      gpsOk,
		PresenceHeartbeatViolationReason: violation,
		PresenceHeartbeatOutsideCount:    insertCount,
	}
	if gpsOk {
		row.PresenceHeartbeatLatitude = &req.Location.Lat
		row.PresenceHeartbeatLongitude = &req.Location.Lng
		row.PresenceHeartbeatAccuracyM = req.Location.AccuracyM
	}

	// 5) UPSERT — exactly satu row per karyawan
	if err := ctl.DB.WithContext(c.Context()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "presence_heartbeat_employee_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"presence_heartbeat_company_id":       companyID,
				"presence_heartbeat_session_id":       sess.AttendanceSessionID,
				"presence_heartbeat_last_seen_at":     now,
				"presence_heartbeat_inside_geofence":  inside,
				"presence_heartbeat_gps_enabled":      gpsOk,
				"presence_heartbeat_violation_reason": violation,
				"presence_heartbeat_outside_count":    conflictCount,
				"presence_heartbeat_latitude":         row.PresenceHeartbeatLatitude,
				"presence_heartbeat_longitude":        row.PresenceHeartbeatLongitude,
				"presence_heartbeat_accuracy_m":       row.PresenceHeartbeatAccuracyM,
				"presence_heartbeat_updated_at":       now,
			}),
		}).
		Create(&row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan heartbeat")
	}

	return helper.Success(c, "heartbeat diterima", dto.HeartbeatResponse{
		Ok:       true,
		InBranch: inside,
		GpsOk:    gpsOk,
	})
}
