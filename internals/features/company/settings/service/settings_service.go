package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	setmodel "hadirku_backend/internals/features/company/settings/model"
)

// Settings jarang berubah, jadi aman di-cache sebentar.
// TTL pendek supaya perubahan admin kepake paling lambat 1 menit.
const cacheTTL = 60 * time.Second

type cachedSetting struct {
	val       setmodel.CompanyAutoCheckoutSettingModel
	expiresAt time.Time
}

type SettingsService struct {
	DB *gorm.DB

	mu    sync.Mutex
	cache map[uuid.UUID]cachedSetting
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{
		DB:    db,
		cache: make(map[uuid.UUID]cachedSetting),
	}
}

// DefaultSettings: fallback aman kalau row settings tenant tidak ada —
// auto-checkout MATI, jangan pernah menutup sesi berdasarkan tebakan.
func DefaultSettings(companyID uuid.UUID) setmodel.CompanyAutoCheckoutSettingModel {
	return setmodel.CompanyAutoCheckoutSettingModel{
		CompanyAutoCheckoutSettingCompanyID:             companyID,
		CompanyAutoCheckoutSettingEnabled:               false,
		CompanyAutoCheckoutSettingCountdownSeconds:      300,
		CompanyAutoCheckoutSettingOutOfRangeReadings:    3,
		CompanyAutoCheckoutSettingHeartbeatStaleSeconds: 120,
	}
}

// GetSettings membaca settings tenant (cache TTL 60 detik).
func (s *SettingsService) GetSettings(companyID uuid.UUID) (setmodel.CompanyAutoCheckoutSettingModel, error) {
	now := time.Now()

	s.mu.Lock()
	if c, ok := s.cache[companyID]; ok && now.Before(c.expiresAt) {
		s.mu.Unlock()
		return c.val, nil
	}
	s.mu.Unlock()

	var m setmodel.CompanyAutoCheckoutSettingModel
	err := s.DB.
		Where("company_auto_checkout_setting_company_id = ?", companyID).
		Limit(1).
		Find(&m).Error
	if err != nil {
		return DefaultSettings(companyID), err
	}
	if m.CompanyAutoCheckoutSettingID == uuid.Nil {
		// belum ada row → default disabled (StaleSettings, bukan error)
		m = DefaultSettings(companyID)
	}

	s.mu.Lock()
	s.cache[companyID] = cachedSetting{val: m, expiresAt: now.Add(cacheTTL)}
	s.mu.Unlock()

	return m, nil
}

// ListEnabled: daftar tenant yang auto-checkout-nya nyala, dipakai sweep.
// Sengaja tanpa cache — sweep jalan tiap 30-60 detik dan harus lihat
// tenant yang baru di-enable.
func (s *SettingsService) ListEnabled() ([]setmodel.CompanyAutoCheckoutSettingModel, error) {
	var rows []setmodel.CompanyAutoCheckoutSettingModel
	if err := s.DB.
		Where("company_auto_checkout_setting_enabled = ?", true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Invalidate dipanggil webhook CRUD admin kalau settings berubah (opsional).
func (s *SettingsService) Invalidate(companyID uuid.UUID) {
	s.mu.Lock()
	delete(s.cache, companyID)
	s.mu.Unlock()
}
