package model

import (
	"time"

	"github.com/google/uuid"
)

// CompanyAutoCheckoutSettingModel: konfigurasi enforcement per tenant.
// Ditulis oleh CRUD admin (di luar core); core hanya membaca.
//
// Default out_of_range_readings = 3: satu bacaan GPS di luar radius
// sering cuma noise akurasi, tiga bacaan berturut-turut (±30-45 detik)
// baru dianggap benar-benar keluar cabang.
type CompanyAutoCheckoutSettingModel struct {
	CompanyAutoCheckoutSettingID        uuid.UUID `gorm:"column:company_auto_checkout_setting_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"company_auto_checkout_setting_id"`
	CompanyAutoCheckoutSettingCompanyID uuid.UUID `gorm:"column:company_auto_checkout_setting_company_id;type:uuid;not null;uniqueIndex:uq_auto_checkout_settings_company" json:"company_auto_checkout_setting_company_id"`

	CompanyAutoCheckoutSettingEnabled               bool `gorm:"column:company_auto_checkout_setting_enabled;not null;default:false" json:"company_auto_checkout_setting_enabled"`
	CompanyAutoCheckoutSettingCountdownSeconds      int  `gorm:"column:company_auto_checkout_setting_countdown_seconds;not null;default:300" json:"company_auto_checkout_setting_countdown_seconds"`
	CompanyAutoCheckoutSettingOutOfRangeReadings    int  `gorm:"column:company_auto_checkout_setting_out_of_range_readings;not null;default:3" json:"company_auto_checkout_setting_out_of_range_readings"`
	CompanyAutoCheckoutSettingHeartbeatStaleSeconds int  `gorm:"column:company_auto_checkout_setting_heartbeat_stale_seconds;not null;default:120" json:"company_auto_checkout_setting_heartbeat_stale_seconds"`

	CompanyAutoCheckoutSettingCreatedAt time.Time  `gorm:"column:company_auto_checkout_setting_created_at;autoCreateTime" json:"company_auto_checkout_setting_created_at"`
	CompanyAutoCheckoutSettingUpdatedAt *time.Time `gorm:"column:company_auto_checkout_setting_updated_at;autoUpdateTime" json:"company_auto_checkout_setting_updated_at,omitempty"`
}

func (CompanyAutoCheckoutSettingModel) TableName() string {
	return "company_auto_checkout_settings"
}
