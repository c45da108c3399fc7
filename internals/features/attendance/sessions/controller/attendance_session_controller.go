// internals/features/attendance/sessions/controller/attendance_session_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	empmodel "hadirku_backend/internals/features/company/employees/model"

	"hadirku_backend/internals/configs"
	pcmodel "hadirku_backend/internals/features/attendance/autocheckout/model"
	hbmodel "hadirku_backend/internals/features/attendance/presence/model"
	"hadirku_backend/internals/features/attendance/sessions/dto"
	"hadirku_backend/internals/features/attendance/sessions/model"
	sessservice "hadirku_backend/internals/features/attendance/sessions/service"
	helper "hadirku_backend/internals/helpers"
)

type AttendanceSessionController struct {
	DB *gorm.DB
}

func NewAttendanceSessionController(db *gorm.DB) *AttendanceSessionController {
	return &AttendanceSessionController{DB: db}
}

/* ===================== CHECK-IN ===================== */
// POST /attendance/check-in
// Jam check-in SELALU jam server, bukan kiriman klien.
func (ctl *AttendanceSessionController) CheckIn(c *fiber.Ctx) error {
	employeeID, err := helper.GetEmployeeIDFromToken(c)
	if err != nil {
		return err
	}
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}

	var emp empmodel.EmployeeModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("employee_company_id = ? AND employee_id = ? AND employee_is_active = TRUE", companyID, employeeID).
		Limit(1).
		Find(&emp).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if emp.EmployeeID == uuid.Nil {
		return fiber.NewError(fiber.StatusNotFound, "Karyawan tidak ditemukan atau nonaktif")
	}

	now := time.Now()
	m := model.AttendanceSessionModel{
		AttendanceSessionCompanyID:  companyID,
		AttendanceSessionEmployeeID: employeeID,
		AttendanceSessionBranchID:   emp.EmployeeBranchID,
		AttendanceSessionDate:       sessservice.DateOf(now, configs.AppLocation),
		AttendanceSessionCheckInAt:  now,
	}

	if err := ctl.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique") {
			return fiber.NewError(fiber.StatusConflict, "Sudah ada sesi terbuka hari ini")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal check-in")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "check-in berhasil", dto.FromSessionModel(&m))
}

/* ===================== CHECK-OUT MANUAL ===================== */
// POST /attendance/check-out
//
// Balapan dengan sweep diselesaikan lewat conditional update:
// UPDATE ... WHERE check_out_at IS NULL. Yang kalah lihat 0 rows dan
// memperlakukan sesi sebagai sudah ditutup penulis lain (RaceLost =
// sukses, bukan error).
func (ctl *AttendanceSessionController) CheckOut(c *fiber.Ctx) error {
	employeeID, err := helper.GetEmployeeIDFromToken(c)
	if err != nil {
		return err
	}
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}

	var sess model.AttendanceSessionModel
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

	now := time.Now()
	kind := model.CheckOutKindManual

	txErr := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.AttendanceSessionModel{}).
			Where("attendance_session_id = ? AND attendance_session_check_out_at IS NULL", sess.AttendanceSessionID).
			Updates(map[string]any{
				"attendance_session_check_out_at":   now,
				"attendance_session_check_out_kind": kind,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// kalah balapan dari sweep — sesi sudah tertutup, jangan
			// utak-atik lagi; pending & heartbeat sudah dibereskan sweep
			return nil
		}

		// batalkan countdown yang masih PENDING untuk sesi ini
		if err := tx.Model(&pcmodel.PendingCheckoutModel{}).
			Where("pending_checkout_session_id = ? AND pending_checkout_status = ?",
				sess.AttendanceSessionID, pcmodel.StatusPending).
			Updates(map[string]any{
				"pending_checkout_status":        pcmodel.StatusCancelled,
				"pending_checkout_cancel_reason": pcmodel.CancelReasonSessionClosed,
			}).Error; err != nil {
			return err
		}

		// presence ikut dihapus saat sesi tutup
		return tx.
			Where("presence_heartbeat_employee_id = ?", employeeID).
			Delete(&hbmodel.PresenceHeartbeatModel{}).Error
	})
	if txErr != nil {
		return helper.FromFiberError(c, txErr)
	}

	// baca ulang state final (apapun pemenang balapannya)
	var closed model.AttendanceSessionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("attendance_session_id = ?", sess.AttendanceSessionID).
		Limit(1).
		Find(&closed).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "check-out berhasil", dto.FromSessionModel(&closed))
}

/* ===================== HARI INI ===================== */
// GET /attendance/sessions/today
func (ctl *AttendanceSessionController) GetToday(c *fiber.Ctx) error {
	employeeID, err := helper.GetEmployeeIDFromToken(c)
	if err != nil {
		return err
	}
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}

	today := sessservice.DateOf(time.Now(), configs.AppLocation)

	var sess model.AttendanceSessionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("attendance_session_company_id = ? AND attendance_session_employee_id = ? AND attendance_session_date = ?",
			companyID, employeeID, today).
		Order("attendance_session_check_in_at DESC").
		Limit(1).
		Find(&sess).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if sess.AttendanceSessionID == uuid.Nil {
		return helper.Success(c, "belum ada sesi hari ini", nil)
	}
	return helper.Success(c, "ok", dto.FromSessionModel(&sess))
}

/* ===================== STATE (PROTOKOL KLIEN) ===================== */
// GET /attendance/sessions/state
//
// Satu-satunya endpoint yang boleh dipercaya protokol rekonsiliasi
// klien: sesi (buka/tutup) + row pending_checkout terakhir. ends_at
// dikirim apa adanya dari DB.
func (ctl *AttendanceSessionController) GetState(c *fiber.Ctx) error {
	employeeID, err := helper.GetEmployeeIDFromToken(c)
	if err != nil {
		return err
	}
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}

	today := sessservice.DateOf(time.Now(), configs.AppLocation)

	// sesi terbuka dulu; kalau tidak ada, sesi terakhir hari ini
	// (supaya klien bisa lihat DONE setelah auto-checkout)
	var sess model.AttendanceSessionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("attendance_session_company_id = ? AND attendance_session_employee_id = ? AND attendance_session_check_out_at IS NULL",
			companyID, employeeID).
		Limit(1).
		Find(&sess).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if sess.AttendanceSessionID == uuid.Nil {
		if err := ctl.DB.WithContext(c.Context()).
			Where("attendance_session_company_id = ? AND attendance_session_employee_id = ? AND attendance_session_date = ?",
				companyID, employeeID, today).
			Order("attendance_session_check_in_at DESC").
			Limit(1).
			Find(&sess).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	state := dto.SessionStateResponse{}
	if sess.AttendanceSessionID != uuid.Nil {
		state.Session = dto.FromSessionModel(&sess)

		var pc pcmodel.PendingCheckoutModel
		if err := ctl.DB.WithContext(c.Context()).
			Where("pending_checkout_session_id = ?", sess.AttendanceSessionID).
			Order("pending_checkout_created_at DESC").
			Limit(1).
			Find(&pc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if pc.PendingCheckoutID != uuid.Nil {
			state.Pending = &dto.PendingCountdownResponse{
				PendingCheckoutID: pc.PendingCheckoutID,
				Reason:            pc.PendingCheckoutReason,
				Status:            pc.PendingCheckoutStatus,
				EndsAt:            pc.PendingCheckoutEndsAt,
			}
		}
	}

	return helper.Success(c, "ok", state)
}
