package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sweepController "hadirku_backend/internals/features/attendance/autocheckout/controller"
	sweepService "hadirku_backend/internals/features/attendance/autocheckout/service"
	AttendanceRoutes "hadirku_backend/internals/features/attendance/sessions/route"
	settingsController "hadirku_backend/internals/features/company/settings/controller"
)

// ✅ Untuk route karyawan login (dengan token)
// Contoh akses: /api/u/attendance/heartbeat
func AttendanceUserRoutes(api fiber.Router, db *gorm.DB) {
	AttendanceRoutes.AttendanceUserRoutes(api, db)
}

// ✅ Endpoint internal (cron / service admin), guard pakai key.
// Contoh akses: POST /internal/sweep/run
func SweepInternalRoutes(app *fiber.App, svc *sweepService.SweepService) {
	ctl := sweepController.NewSweepController(svc)
	cacheCtl := settingsController.NewSettingsCacheController(svc.Settings)

	internal := app.Group("/internal", sweepController.RequireSweepKey())
	internal.Post("/sweep/run", ctl.Run)
	internal.Post("/settings/invalidate", cacheCtl.Invalidate)
}
