// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"hadirku_backend/internals/configs"
	sweepService "hadirku_backend/internals/features/attendance/autocheckout/service"
	authMiddleware "hadirku_backend/internals/middlewares/auth"
	routeDetails "hadirku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, sweep *sweepService.SweepService) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	// ===================== PRIVATE (KARYAWAN) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	log.Println("[INFO] Mounting Attendance routes...")
	routeDetails.AttendanceUserRoutes(private, db)

	// ===================== INTERNAL (CRON) =====================
	log.Println("[INFO] Mounting Sweep internal routes...")
	routeDetails.SweepInternalRoutes(app, sweep)
}
