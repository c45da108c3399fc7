package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	presenceController "hadirku_backend/internals/features/attendance/presence/controller"
	sessionController "hadirku_backend/internals/features/attendance/sessions/controller"
	middlewares "hadirku_backend/internals/middlewares"
)

// AttendanceUserRoutes: endpoint karyawan login (prefix /api/u)
func AttendanceUserRoutes(api fiber.Router, db *gorm.DB) {
	sessCtl := sessionController.NewAttendanceSessionController(db)
	hbCtl := presenceController.NewHeartbeatController(db)

	attendance := api.Group("/attendance")

	attendance.Post("/check-in", sessCtl.CheckIn)
	attendance.Post("/check-out", sessCtl.CheckOut)

	attendance.Get("/sessions/today", sessCtl.GetToday)
	attendance.Get("/sessions/state", sessCtl.GetState)

	// heartbeat periodik (10-15 detik) — limiter khusus per karyawan
	attendance.Post("/heartbeat", middlewares.HeartbeatRateLimiter(), hbCtl.Ingest)
}
