// internals/features/attendance/autocheckout/controller/sweep_controller.go
package controller

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"hadirku_backend/internals/configs"
	"hadirku_backend/internals/features/attendance/autocheckout/service"
	helper "hadirku_backend/internals/helpers"
)

type SweepController struct {
	Service *service.SweepService
}

func NewSweepController(svc *service.SweepService) *SweepController {
	return &SweepController{Service: svc}
}

// RequireSweepKey: guard untuk trigger cron eksternal. Kalau
// SWEEP_TRIGGER_KEY tidak diset, endpoint dimatikan total.
func RequireSweepKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := configs.SweepTriggerKey
		if key == "" {
			return fiber.NewError(fiber.StatusNotFound, "Not Found")
		}
		got := c.Get("X-Sweep-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return c.Next()
	}
}

// POST /internal/sweep/run
// Idempoten per sesi — aman dipanggil lebih sering dari yang perlu.
func (ctl *SweepController) Run(c *fiber.Ctx) error {
	rep, err := ctl.Service.RunOnce()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Sweep gagal: "+err.Error())
	}
	return helper.Success(c, "sweep selesai", rep)
}
