package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Tipe notifikasi di-handle enum di sisi kode
const (
	NotificationTypeAutoCheckout = 1
)

// NotificationModel: event domain yang di-consume subsistem push
// notification (di luar repo ini). Core hanya menulis row.
type NotificationModel struct {
	NotificationID          uuid.UUID      `gorm:"column:notification_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"notification_id"`
	NotificationTitle       string         `gorm:"column:notification_title;type:varchar(255);not null" json:"notification_title"`
	NotificationDescription string         `gorm:"column:notification_description;type:text" json:"notification_description"`
	NotificationType        int            `gorm:"column:notification_type;not null" json:"notification_type"`
	NotificationCompanyID   *uuid.UUID     `gorm:"column:notification_company_id;type:uuid" json:"notification_company_id"`  // nullable
	NotificationEmployeeID  *uuid.UUID     `gorm:"column:notification_employee_id;type:uuid" json:"notification_employee_id"` // nullable
	NotificationTags        pq.StringArray `gorm:"column:notification_tags;type:text[]" json:"notification_tags"`
	NotificationCreatedAt   time.Time      `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
	NotificationUpdatedAt   time.Time      `gorm:"column:notification_updated_at;autoUpdateTime" json:"notification_updated_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
