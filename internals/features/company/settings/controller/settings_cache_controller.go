// internals/features/company/settings/controller/settings_cache_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "hadirku_backend/internals/helpers"
)

// CacheInvalidator: dipenuhi SettingsService. Interface supaya test
// bisa meng-inject fake tanpa DB.
type CacheInvalidator interface {
	Invalidate(companyID uuid.UUID)
}

type SettingsCacheController struct {
	Cache CacheInvalidator
}

func NewSettingsCacheController(cache CacheInvalidator) *SettingsCacheController {
	return &SettingsCacheController{Cache: cache}
}

// POST /internal/settings/invalidate
// Dipanggil service CRUD admin (di luar repo ini) setiap settings tenant
// berubah, supaya cache TTL tidak menunda perubahan sampai 60 detik.
func (ctl *SettingsCacheController) Invalidate(c *fiber.Ctx) error {
	var req struct {
		CompanyID string `json:"company_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}

	companyID, err := uuid.Parse(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "company_id tidak valid")
	}

	ctl.Cache.Invalidate(companyID)
	return helper.Success(c, "cache settings di-invalidate", fiber.Map{
		"company_id": companyID,
	})
}
